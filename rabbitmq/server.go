package rabbitmq

import (
	"context"
	"net/url"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"

	"github.com/mealdash/eventrelay/broker"
	"github.com/mealdash/eventrelay/broker/rabbitmq"
)

var (
	_ transport.Server     = (*Server)(nil)
	_ transport.Endpointer = (*Server)(nil)
)

type subscriberOption struct {
	handler broker.Handler
	binder  broker.Binder
	opts    []broker.SubscribeOption
}

// Server runs a rabbitmq broker under a kratos application lifecycle, so
// subscriber processes get an explicit start and a scoped shutdown instead
// of connecting at import time.
type Server struct {
	broker.Broker

	subscribers    *broker.SubscriberSyncMap
	subscriberOpts map[string]*subscriberOption

	sync.RWMutex
	started bool

	log     *log.Helper
	baseCtx context.Context
	err     error
}

// NewServer creates a rabbitmq server by options.
func NewServer(opts ...broker.Option) *Server {
	srv := &Server{
		baseCtx:        context.Background(),
		log:            log.NewHelper(log.GetLogger()),
		Broker:         rabbitmq.NewBroker(opts...),
		subscribers:    broker.NewSubscriberSyncMap(),
		subscriberOpts: make(map[string]*subscriberOption),
	}

	srv.err = srv.Init()

	return srv
}

// Start connects to the broker and activates registered subscribers.
// Connecting blocks through the retry loop, so a broker that is still
// starting delays the server rather than failing it.
func (s *Server) Start(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}

	s.Lock()
	if s.started {
		s.Unlock()
		return nil
	}
	s.Unlock()

	s.baseCtx = ctx

	s.log.Infof("[rabbitmq] server listening on: %s", s.Address())

	if s.err = s.Connect(); s.err != nil {
		return s.err
	}

	if s.err = s.doRegisterSubscribers(); s.err != nil {
		return s.err
	}

	s.Lock()
	s.started = true
	s.Unlock()

	return nil
}

// Stop unsubscribes everything and disconnects.
func (s *Server) Stop(_ context.Context) error {
	s.Lock()
	defer s.Unlock()

	if !s.started {
		return nil
	}

	s.log.Info("[rabbitmq] server stopping")

	s.subscribers.Clear()
	s.started = false

	return s.Disconnect()
}

func (s *Server) Endpoint() (*url.URL, error) {
	if s.err != nil {
		return nil, s.err
	}
	return url.Parse(s.Address())
}

// RegisterSubscriber registers a subscription by topic. Before Start the
// subscription is queued and activated once the connection is up.
func (s *Server) RegisterSubscriber(topic string, handler broker.Handler, binder broker.Binder, opts ...broker.SubscribeOption) error {
	s.Lock()
	defer s.Unlock()

	if s.started {
		return s.doSubscribe(topic, &subscriberOption{handler: handler, binder: binder, opts: opts})
	}

	s.subscriberOpts[topic] = &subscriberOption{handler: handler, binder: binder, opts: opts}
	return nil
}

func (s *Server) doSubscribe(topic string, opt *subscriberOption) error {
	sub, err := s.Subscribe(topic, opt.handler, opt.binder, opt.opts...)
	if err != nil {
		return err
	}

	s.subscribers.Add(topic, sub)
	return nil
}

func (s *Server) doRegisterSubscribers() error {
	s.Lock()
	defer s.Unlock()

	for topic, opt := range s.subscriberOpts {
		if err := s.doSubscribe(topic, opt); err != nil {
			return err
		}
	}

	return nil
}
