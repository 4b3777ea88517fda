package cli_config

import (
	common "github.com/NordCoder/ProjectEye/internal/config/common"
	pg "github.com/NordCoder/ProjectEye/internal/repository/postgres"
)

type Config struct {
	App   common.App   `mapstructure:"app"`
	Log   common.Log   `mapstructure:"log"`
	API   common.API   `mapstructure:"api"`
	Store common.Store `mapstructure:"store"`
	DB    pg.Config    `mapstructure:"db"`
}
