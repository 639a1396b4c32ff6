package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/api"
	"github.com/matt-g-everett/ledtime/document"
	"github.com/matt-g-everett/ledtime/stream"
	"github.com/matt-g-everett/ledtime/timing"
)

var log = logrus.WithField("component", "main")

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Manager    *timing.Manager
	Streamer   *stream.Streamer
	Controller *stream.Controller
	API        *api.API
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Info("connected")
	a.Controller.Subscribe(client, a.Config.Mqtt.Topics.Control, a.Config.Mqtt.QoS)
}

func (a *app) handleConnectionLost(client mqtt.Client, err error) {
	log.WithError(err).Warn("connection lost")
}

func (a *app) setup(configPath string) error {
	var err error
	if a.Config, err = stream.ReadConfig(configPath); err != nil {
		return err
	}
	log.Debugf("config: %+v", a.Config)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(a.handleConnectionLost)
	a.Client = mqtt.NewClient(options)

	source := timing.NewSystemTimeSource(a.Config.Timing.FrameRate)
	a.Manager = timing.NewManager(source)
	a.Manager.SetMaximumRefreshRate(a.Config.Timing.MaxRefreshRate)

	var storyboards []*animation.Storyboard
	if a.Config.Storyboards != "" {
		doc, err := document.Load(a.Config.Storyboards)
		if err != nil {
			return err
		}
		if storyboards, err = doc.Build(); err != nil {
			return errors.Wrapf(err, "building %s", a.Config.Storyboards)
		}
	}

	strips, names := stream.NewStrips(a.Config.Strips, time.Now().UnixNano())
	scene := animation.NewScene(a.Manager, names)
	a.Streamer = stream.NewStreamer(a.Manager, strips, stream.MQTTPublisher(a.Client, a.Config.Mqtt.QoS))
	if a.Controller, err = stream.NewController(a.Config, scene, a.Streamer, storyboards); err != nil {
		return err
	}

	a.API = api.NewAPI(a.Controller)
	a.API.Static = a.Config.HTTP.Static
	return nil
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return errors.Wrap(token.Error(), "connecting to broker")
	}
	defer a.Client.Disconnect(250)

	// The source is not ticking yet, so the tree is still ours.
	a.Streamer.Start()
	if err := a.Controller.Start(); err != nil {
		return err
	}
	a.Manager.Start()
	defer a.Manager.Shutdown()

	errc := make(chan error, 1)
	go func() {
		errc <- a.API.Serve(ctx, a.Config.HTTP.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return <-errc
	}
}

func main() {
	mqtt.ERROR = logrus.WithField("component", "mqtt")

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	debug := flag.Bool("debug", false, "Log at debug level.")
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	a := newApp()
	if err := a.setup(*configPath); err != nil {
		log.WithError(err).Fatal("setup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.run(ctx); err != nil {
		log.WithError(err).Fatal("exiting")
	}
}
