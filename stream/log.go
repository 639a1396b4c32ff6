package stream

import "github.com/sirupsen/logrus"

var log = logrus.WithField("component", "stream")
