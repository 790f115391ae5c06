package main

import (
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/mealdash/eventrelay/broker"
	mq "github.com/mealdash/eventrelay/broker/rabbitmq"
	"github.com/mealdash/eventrelay/notify"
	"github.com/mealdash/eventrelay/rabbitmq"
	"github.com/mealdash/eventrelay/relay"
)

func main() {
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"service", "notify",
	)
	helper := log.NewHelper(logger)

	cfg, err := relay.LoadConfig()
	if err != nil {
		helper.Fatalf("load config: %v", err)
	}

	codec, err := cfg.Codec()
	if err != nil {
		helper.Fatalf("resolve wire format: %v", err)
	}

	metrics := relay.NewMetrics()

	svc := notify.New(
		notify.WithCodec(codec),
		notify.WithMetrics(metrics),
		notify.WithLogger(logger),
	)

	srv := rabbitmq.NewServer(
		broker.Addrs(cfg.URL()),
		broker.WithErrorHandler(svc.OnDeliveryError),
		mq.ExchangeName(""),
		mq.RetryInterval(cfg.RetryInterval),
		mq.MaxRetries(cfg.MaxRetries),
	)

	if err := svc.Register(srv); err != nil {
		helper.Fatalf("register subscribers: %v", err)
	}

	httpSrv := http.NewServer(http.Address(cfg.MetricsAddr))
	httpSrv.HandlePrefix("/metrics", metrics.Handler())

	app := kratos.New(
		kratos.Name("notify"),
		kratos.Logger(logger),
		kratos.Server(srv, httpSrv),
	)

	helper.Info("Notification Service started, waiting for messages...")
	if err := app.Run(); err != nil {
		helper.Fatal(err)
	}
}
