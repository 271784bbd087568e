package main

import "github.com/spf13/viper"

func initViperDefaults() {
	viper.SetDefault("telegram.api_endpoint", "")
	viper.SetDefault("telegram.default_target", "")
	viper.SetDefault("contacts.path", "")
	viper.SetDefault("state_dir", "")

	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)
	viper.SetDefault("verbose", false)
}
