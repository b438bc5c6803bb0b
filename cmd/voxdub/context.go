package main

import (
	"strings"
	"sync"

	"voxdub/internal/config"
)

type commandContext struct {
	apiFlag    *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(apiFlag, configFlag *string) *commandContext {
	return &commandContext{
		apiFlag:    apiFlag,
		configFlag: configFlag,
	}
}

// configPath returns the --config flag value, empty when unset.
func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// baseURL resolves the daemon API address: the --api flag wins, otherwise
// the configured bind address.
func (c *commandContext) baseURL() string {
	if c.apiFlag != nil {
		if flag := strings.TrimSpace(*c.apiFlag); flag != "" {
			return strings.TrimSuffix(flag, "/")
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return "http://" + config.Default().Paths.APIBind
	}
	return "http://" + cfg.Paths.APIBind
}

func (c *commandContext) client() *apiClient {
	return newAPIClient(c.baseURL())
}
