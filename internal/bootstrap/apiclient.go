package bootstrap

import (
	"github.com/NordCoder/ProjectEye/internal/apiclient"
	common "github.com/NordCoder/ProjectEye/internal/config/common"
	"github.com/NordCoder/ProjectEye/internal/projecteye"
	"github.com/NordCoder/ProjectEye/internal/tokenstore"
	"go.uber.org/zap"
)

func NewAPI(cfg common.API, store tokenstore.Store, log *zap.Logger) (*apiclient.Client, *projecteye.API, error) {
	c, err := apiclient.New(cfg.AsClientConfig(), store, apiclient.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return c, projecteye.New(c), nil
}
