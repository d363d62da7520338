package netadapter

import (
	"github.com/dagnet/dagd/infrastructure/logger"
	"github.com/dagnet/dagd/util/panics"
)

var log, _ = logger.Get(logger.SubsystemTags.NTAR)
var spawn = panics.GoroutineWrapperFunc(log)
