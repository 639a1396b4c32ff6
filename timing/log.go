package timing

import "github.com/sirupsen/logrus"

var log = logrus.WithField("component", "timing")
