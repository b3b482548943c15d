package main

import (
	"os"

	"github.com/Luismorlan/utxo_handler/commands"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Name = "txhandler"
	app.Usage = "validate epochs of UTXO transactions and fold the accepted ones into the pool"
	app.Commands = append(
		app.Commands,
		&commands.Handle,
		&commands.Validate,
	)

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
