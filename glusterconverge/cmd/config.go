package cmd

import (
	"encoding/json"
	"expvar"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	config "github.com/spf13/viper"
)

const envPrefix = "gluster_converge"

var expConfig = expvar.NewMap("config")

// initConfig layers, from lowest to highest priority: flag defaults, the
// TOML config file, environment variables (including .env files) and flags
// set on the command line.
func initConfig(flags *flag.FlagSet) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()

	// Limit config to toml only to avoid confusion with multiple config types
	config.SetConfigType("toml")

	if err := config.BindPFlags(flags); err != nil {
		return err
	}

	if confFile := config.GetString("config"); confFile != "" {
		config.SetConfigFile(confFile)
		if err := config.MergeInConfig(); err != nil {
			log.WithError(err).
				WithField("file", confFile).
				Error("failed to read config file")
			return err
		}
	}
	return nil
}

func initLogging() error {
	return logging.Init(logging.Config{
		Dir:            config.GetString(logging.DirFlag),
		File:           config.GetString(logging.FileFlag),
		Level:          config.GetString(logging.LevelFlag),
		Format:         config.GetString(logging.FormatFlag),
		SourceLocation: verbose,
	})
}

type valueType struct {
	v interface{}
}

func (v valueType) String() string {
	vb, _ := json.Marshal(v.v)
	return string(vb)
}

func dumpConfigToLog() {
	if config.ConfigFileUsed() != "" {
		log.WithField("file", config.ConfigFileUsed()).Info("loaded configuration from file")
	}

	l := log.NewEntry(log.StandardLogger())
	for k, v := range config.AllSettings() {
		expConfig.Set(k, valueType{v})
		l = l.WithField(k, v)
	}
	l.Debug("running with configuration")
}
