package stream

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the daemon configuration.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		QoS      byte   `yaml:"qos"`
		Topics   struct {
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Timing struct {
		// FrameRate is the tick rate of the time source in Hz.
		FrameRate int `yaml:"frameRate"`
		// MaxRefreshRate caps how often frames are published. 0 publishes
		// on every tick that changed something.
		MaxRefreshRate int `yaml:"maxRefreshRate"`
	} `yaml:"timing"`
	HTTP struct {
		Addr string `yaml:"addr"`
		// Static is a directory of web client files served at the root.
		Static string `yaml:"static"`
	} `yaml:"http"`
	// Storyboards is the path of the storyboard document.
	Storyboards string `yaml:"storyboards"`
	Playlist    struct {
		Storyboards []string `yaml:"storyboards"`
		Interval    string   `yaml:"interval"`
		Transition  string   `yaml:"transition"`
	} `yaml:"playlist"`
	Strips []StripConfig `yaml:"strips"`
}

// StripConfig describes one LED strip.
type StripConfig struct {
	Name      string        `yaml:"name"`
	Pixels    int           `yaml:"pixels"`
	Topic     string        `yaml:"topic"`
	Luminance float64       `yaml:"luminance"`
	Gradient  GradientTable `yaml:"gradient"`
}

// ReadConfig decodes the configuration at path and fills in defaults.
func ReadConfig(path string) (Config, error) {
	var c Config
	f, err := os.Open(path)
	if err != nil {
		return c, errors.Wrap(err, "opening config")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return c, errors.Wrapf(err, "decoding %s", path)
	}
	c.setDefaults()
	return c, c.Validate()
}

func (c *Config) setDefaults() {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "ledtime"
	}
	if c.Timing.FrameRate == 0 {
		c.Timing.FrameRate = 60
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":3000"
	}
	for i := range c.Strips {
		s := &c.Strips[i]
		if s.Luminance == 0 {
			s.Luminance = 0.05
		}
		if len(s.Gradient) == 0 {
			s.Gradient = RainbowGradient
		}
	}
}

// Validate checks the values defaults cannot fix.
func (c *Config) Validate() error {
	if c.Mqtt.QoS > 2 {
		return errors.Errorf("mqtt qos %d is not 0, 1 or 2", c.Mqtt.QoS)
	}
	if c.Timing.FrameRate < 0 || c.Timing.MaxRefreshRate < 0 {
		return errors.New("frame rates must not be negative")
	}
	if _, err := c.PlaylistInterval(); err != nil {
		return err
	}
	if _, err := c.TransitionTime(); err != nil {
		return err
	}
	if len(c.Strips) == 0 {
		return errors.New("no strips configured")
	}
	names := make(map[string]bool)
	for _, s := range c.Strips {
		switch {
		case s.Name == "":
			return errors.New("strip without a name")
		case names[s.Name]:
			return errors.Errorf("duplicate strip %q", s.Name)
		case s.Pixels <= 0 || s.Pixels > maxPixels:
			return errors.Errorf("strip %q: pixel count %d out of range", s.Name, s.Pixels)
		case s.Topic == "":
			return errors.Errorf("strip %q has no topic", s.Name)
		}
		names[s.Name] = true
	}
	return nil
}

// PlaylistInterval is how long each playlist entry runs. Zero disables the
// playlist.
func (c *Config) PlaylistInterval() (time.Duration, error) {
	return parseOptionalDuration("playlist interval", c.Playlist.Interval)
}

// TransitionTime is the crossfade between playlist entries.
func (c *Config) TransitionTime() (time.Duration, error) {
	return parseOptionalDuration("playlist transition", c.Playlist.Transition)
}

func parseOptionalDuration(what, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.Errorf("invalid %s %q", what, s)
	}
	return d, nil
}
