package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/ident.go/pkg/appliance"
	"github.com/robotalks/ident.go/pkg/eeprom"
	"github.com/robotalks/ident.go/pkg/eeprom/emul"
	fx "github.com/robotalks/ident.go/pkg/framework"
	"github.com/robotalks/ident.go/pkg/gate"
	"github.com/robotalks/ident.go/pkg/mqtt"
	"github.com/robotalks/ident.go/pkg/protocol"
	"github.com/robotalks/ident.go/pkg/protocol/serialport"
	"github.com/robotalks/ident.go/pkg/protocol/websocket"
	"github.com/robotalks/ident.go/pkg/pulse"
	pulsemqtt "github.com/robotalks/ident.go/pkg/pulse/mqtt"
	"github.com/robotalks/ident.go/pkg/telemetry"
)

var configFile = "identd.yml"

func init() {
	flag.StringVar(&configFile, "config", configFile, "Configuration file.")
}

func main() {
	flag.Parse()

	cfg, err := appliance.LoadConfig(configFile)
	if err != nil {
		glog.Exitf("load config: %v", err)
	}

	var chip *emul.Chip
	if cfg.EEPROMImage != "" {
		if chip, err = emul.Open(cfg.EEPROMImage); err != nil {
			glog.Exitf("open eeprom image: %v", err)
		}
	} else {
		chip = emul.New()
	}
	dev := eeprom.New(chip, cfg.AddrPin)

	var wp gate.Gate = gate.Static(false)
	var lockFile *gate.LockFile
	if cfg.LockFile != "" {
		lockFile = gate.NewLockFile(cfg.LockFile)
		wp = lockFile
	}

	unit := appliance.New(dev, wp, cfg.CounterSlots)
	if err = unit.Boot(); err != nil {
		glog.Exitf("boot: %v", err)
	}

	qualifier, err := pulse.NewQualifier(cfg.Debounce(), cfg.MinPulse(), unit.Counter())
	if err != nil {
		glog.Exitf("pulse qualifier: %v", err)
	}

	loop := fx.NewLoop()
	loop.Interval = cfg.FlushInterval()
	loop.AddController(unit.FlushController())

	runner := fx.NewRunner().HandleSignals()

	var queue *mqtt.Queue
	if cfg.MQTT.Broker != "" {
		if queue, err = mqtt.NewQueueFromURL(cfg.MQTT.Broker); err != nil {
			glog.Exitf("mqtt: %v", err)
		}
		loop.AddController(telemetry.NewAnnouncer(queue, unit))
		if token := queue.Connect(); token.Wait() && token.Error() != nil {
			glog.Exitf("mqtt connect: %v", token.Error())
		}
		defer queue.Close()
		if cfg.MQTT.EdgeTopic != "" {
			runner.Go(pulsemqtt.NewSource(queue, cfg.MQTT.EdgeTopic, qualifier))
		}
	}

	if cfg.PulsePipe != "" {
		source, err := pulse.OpenFileSource(cfg.PulsePipe, qualifier)
		if err != nil {
			glog.Exitf("pulse pipe: %v", err)
		}
		runner.Go(source)
	}

	if cfg.ListenTCP != "" {
		server, err := protocol.NewServer(cfg.ListenTCP, unit)
		if err != nil {
			glog.Exitf("console tcp: %v", err)
		}
		runner.Go(server)
	}
	if cfg.ListenWS != "" {
		runner.Go(&websocket.Server{Addr: cfg.ListenWS, Station: unit})
	}
	if cfg.Serial.Device != "" {
		console, err := serialport.Open(cfg.Serial.Device, cfg.Serial.Baud, unit)
		if err != nil {
			glog.Exitf("console serial: %v", err)
		}
		runner.Go(console)
	}
	if lockFile != nil {
		runner.Go(lockFile)
	}
	runner.Go(loop)

	if err = runner.Wait(); err != nil {
		glog.Exitf("exit: %v", err)
	}
}
