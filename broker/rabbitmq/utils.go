package rabbitmq

import (
	"regexp"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mealdash/eventrelay/broker"
)

var re = regexp.MustCompile("^amqp(s)?://.*")

func hasUrlPrefix(url string) bool {
	return re.MatchString(url)
}

func refitUrl(url string, enableTLS bool) string {
	if !hasUrlPrefix(url) {
		prefix := "amqp://"
		if enableTLS {
			prefix = "amqps://"
		}
		url = prefix + url
	}
	return url
}

func rabbitHeaderToMap(h amqp.Table) broker.Headers {
	headers := make(broker.Headers, len(h))
	for k, v := range h {
		if s, ok := v.(string); ok {
			headers[k] = s
		}
	}
	return headers
}

func generateUUID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return ""
	}
	return id.String()
}
