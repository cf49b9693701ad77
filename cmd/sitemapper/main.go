package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gwatts/rootcerts"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/wanstack/sitemapper"
	"github.com/wanstack/sitemapper/vmanage"
)

var (
	configFlag = flag.String("config", "", "configuration file path")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if *flagDebug {
		log.SetLevel(log.DebugLevel)
	}

	viper.SetDefault("cacheSize", 1024)
	viper.SetDefault("geocodeInterval", "1s")
	viper.SetDefault("output", "sites_geocoded.json")

	viper.SetConfigName("sitemapper")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/sitemapper/")
	viper.AddConfigPath("$HOME/.sitemapper")
	viper.AddConfigPath(".")

	if *configFlag != "" {
		viper.SetConfigFile(*configFlag)
	}

	log.Info("Reading configuration")

	if err := viper.ReadInConfig(); err != nil {
		log.WithError(err).Fatalln("Unable to read configuration")
	}

	config := &sitemapper.Config{}

	if err := viper.Unmarshal(config); err != nil {
		log.WithError(err).Fatalln("Unable to unmarshal configuration")
	}

	if config.URL == "" {
		log.Fatalln("No controller url configured")
	}

	config.SetRootCAs(rootcerts.ServerCertPool())

	client, err := vmanage.NewClient(config.URL, config.Username, config.Password, config.HTTPClient())

	if err != nil {
		log.WithError(err).Fatalln("Unable to create api client")
	}

	log.WithField("controller", config.URL).Info("Authenticating")

	if err := client.Login(); err != nil {
		log.WithError(err).Fatalln("Authentication failed")
	}

	mapper, err := sitemapper.New(config, client)

	if err != nil {
		log.WithError(err).Fatalln("Unable to create site mapper")
	}

	if err := mapper.Extract(); err != nil {
		log.WithError(err).Fatalln("Unable to extract site hierarchy")
	}

	mapper.WriteReport(os.Stdout)

	if config.Output != "" {
		if err := mapper.WriteJSON(config.Output); err != nil {
			log.WithError(err).Fatalln("Unable to write site hierarchy")
		}

		log.WithField("file", config.Output).Info("Wrote geocoded site hierarchy")
	}

	if config.Bind == "" {
		return
	}

	mapper.Serve()

	log.Info("Ready")

	c := make(chan os.Signal, 1)

	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	<-c
}
