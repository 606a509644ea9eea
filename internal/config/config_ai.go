package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetImproveConfig returns the AI configuration for improve operations with fallback to global config
func (c *Config) GetImproveConfig() OperationAIConfig {
	config := c.AI.Improve

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply improve-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.ImproveResume == "" {
		config.CustomPrompts.SystemPrompts.ImproveResume = c.AI.CustomPrompts.SystemPrompts.ImproveResume
	}
	if config.CustomPrompts.UserPrompts.ImproveResume == "" {
		config.CustomPrompts.UserPrompts.ImproveResume = c.AI.CustomPrompts.UserPrompts.ImproveResume
	}

	return config
}
