package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mklimuk/mcp342x"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// settings is the YAML configuration file layout.
//
//	adapter: generic
//	bus: /dev/i2c-1
//	address: "0x68"
//	speed: 400kHz
//	channels:
//	  - channel: ch1
//	    resolution: 16bit
//	    gain: x2
//	    mode: one-shot
type settings struct {
	Adapter          string            `yaml:"adapter"`
	Bus              string            `yaml:"bus,omitempty"`
	Address          string            `yaml:"address"`
	Speed            string            `yaml:"speed,omitempty"`
	PollAttempts     int               `yaml:"poll_attempts,omitempty"`
	ConversionOffset time.Duration     `yaml:"conversion_offset,omitempty"`
	Channels         []channelSettings `yaml:"channels,omitempty"`
}

type channelSettings struct {
	Channel    mcp342x.Channel    `yaml:"channel"`
	Resolution mcp342x.Resolution `yaml:"resolution"`
	Gain       mcp342x.Gain       `yaml:"gain"`
	Mode       mcp342x.Mode       `yaml:"mode"`
}

func (c channelSettings) configuration() mcp342x.Configuration {
	return mcp342x.NewConfiguration(c.Channel, c.Resolution, c.Gain, c.Mode)
}

func defaultSettings() settings {
	return settings{
		Adapter: "mcp2221",
		Address: fmt.Sprintf("%#x", mcp342x.DefaultAddress),
	}
}

// loadSettings reads the file over the defaults. An empty path yields the defaults.
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("could not read config file: %w", err)
	}
	err = yaml.Unmarshal(data, &s)
	if err != nil {
		return s, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	_, err = s.address()
	if err != nil {
		return s, err
	}
	_, err = s.speed()
	if err != nil {
		return s, err
	}
	return s, nil
}

func (s *settings) set(name, value string) {
	switch name {
	case "adapter":
		s.Adapter = value
	case "bus":
		s.Bus = value
	case "address":
		s.Address = value
	case "speed":
		s.Speed = value
	}
}

func (s settings) address() (byte, error) {
	addr, err := strconv.ParseUint(s.Address, 0, 7)
	if err != nil {
		return 0, fmt.Errorf("invalid device address %q: %w", s.Address, err)
	}
	return byte(addr), nil
}

// speed returns 0 when the bus clock should be left alone.
func (s settings) speed() (physic.Frequency, error) {
	var f physic.Frequency
	if s.Speed == "" {
		return 0, nil
	}
	err := f.Set(s.Speed)
	if err != nil {
		return 0, fmt.Errorf("invalid bus speed %q: %w", s.Speed, err)
	}
	return f, nil
}

// configurations returns the configured channels or the device default.
func (s settings) configurations() []mcp342x.Configuration {
	if len(s.Channels) == 0 {
		return []mcp342x.Configuration{mcp342x.DefaultConfiguration()}
	}
	cfgs := make([]mcp342x.Configuration, 0, len(s.Channels))
	for _, ch := range s.Channels {
		cfgs = append(cfgs, ch.configuration())
	}
	return cfgs
}

func (s settings) deviceOpts(logger *slog.Logger) []mcp342x.DeviceOpt {
	opts := []mcp342x.DeviceOpt{mcp342x.WithLogger(logger)}
	if s.PollAttempts > 0 {
		opts = append(opts, mcp342x.WithPollAttempts(s.PollAttempts))
	}
	if s.ConversionOffset != 0 {
		opts = append(opts, mcp342x.WithConversionTime(mcp342x.ConversionTimeOffset(s.ConversionOffset)))
	}
	return opts
}
