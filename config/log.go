package config

import (
	"github.com/dagnet/dagd/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.CNFG)
