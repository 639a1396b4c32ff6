package animation

import "github.com/sirupsen/logrus"

var log = logrus.WithField("component", "animation")
