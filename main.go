package main

import (
	"tds-export/config"
	"tds-export/ui"
	"tds-export/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	ui.Run(cfg, logger)
}
