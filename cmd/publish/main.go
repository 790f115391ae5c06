// Command publish is a one-shot publisher for exercising the relay from
// the command line.
//
//	publish -exchange payment_events -event PaymentCompleted -attr order_id=42 -attr amount=19.99
//	publish -queue notifications -message "Delivery assigned: order 7"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/mealdash/eventrelay/relay"
)

type attrFlags []relay.Attr

func (a *attrFlags) String() string { return fmt.Sprint([]relay.Attr(*a)) }

func (a *attrFlags) Set(value string) error {
	key, raw, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("attribute %q is not key=value", value)
	}
	*a = append(*a, relay.KV(key, parseScalar(raw)))
	return nil
}

// parseScalar keeps the wire types the platform expects: ints stay ints,
// decimals become floats, everything else stays a string.
func parseScalar(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func main() {
	var (
		exchange = flag.String("exchange", "", "fanout exchange to publish to")
		queue    = flag.String("queue", "", "durable queue to publish to")
		event    = flag.String("event", "", "event name for fanout publishes")
		message  = flag.String("message", "", "plain text for queue publishes")
		attrs    attrFlags
	)
	flag.Var(&attrs, "attr", "event attribute as key=value, repeatable")
	flag.Parse()

	helper := log.NewHelper(log.With(log.NewStdLogger(os.Stdout), "service", "publish"))

	cfg, err := relay.LoadConfig()
	if err != nil {
		helper.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	switch {
	case *exchange != "" && *event != "":
		p := relay.NewFanoutPublisher(cfg.URL(), *exchange)
		defer p.Close()
		if err := p.Publish(ctx, relay.NewEvent(*event, attrs...)); err != nil {
			helper.Fatalf("publish to %s: %v", *exchange, err)
		}
		helper.Infof("published %s to %s", *event, *exchange)

	case *queue != "" && *message != "":
		p := relay.NewDurablePublisher(cfg.URL(), *queue)
		defer p.Close()
		if err := p.Publish(ctx, *message); err != nil {
			helper.Fatalf("publish to %s: %v", *queue, err)
		}
		helper.Infof("published to %s", *queue)

	default:
		flag.Usage()
		os.Exit(2)
	}
}
