package main

import (
	"context"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/harness-community/drone-nunit-results/plugin"
)

func main() {
	var args plugin.Args
	if err := envconfig.Process("", &args); err != nil {
		logrus.Fatalln("failed to read plugin configuration:", err)
	}

	if args.Level != "" {
		level, err := logrus.ParseLevel(args.Level)
		if err != nil {
			logrus.Warnf("invalid log level %q, using default", args.Level)
		} else {
			logrus.SetLevel(level)
		}
	}

	if err := plugin.ValidateInputs(args); err != nil {
		logrus.Fatalln("invalid plugin configuration:", err)
	}

	if err := plugin.Exec(context.Background(), args); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
}
