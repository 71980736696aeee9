package mempool

import (
	"github.com/btcsuite/btclog"
	"github.com/daglabs/shardpool/logs"
)

var log btclog.Logger = logs.Get(logs.SubsystemTags.MEMP)

// clusterLog is used by clusterbuilder.go, a dedicated tag so
// cluster-construction noise can be filtered independently of admission
// noise.
var clusterLog btclog.Logger = logs.Get(logs.SubsystemTags.CLST)

// driverLog is used by tipdriver.go/gossipdriver.go and by orphanpool.go's
// eviction message.
var driverLog btclog.Logger = logs.Get(logs.SubsystemTags.DRVR)
