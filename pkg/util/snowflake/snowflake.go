// Package snowflake wraps bwmarrin/snowflake behind a process-wide node.
// Message ids use the string form so JavaScript clients never hit the
// float64 precision limit.
package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	nodeID   int64 = 1
)

// Init sets the node id and builds the generator. Call once at startup;
// machineID must be unique per process in a multi-node deployment.
func Init(machineID int64) {
	nodeID = machineID
	nodeOnce.Do(initNode)
}

func initNode() {
	id := nodeID
	if id < 0 || id > 1023 {
		id = 1
		zap.L().Warn("invalid snowflake machine id, using default 1")
	}
	var err error
	node, err = snowflake.NewNode(id)
	if err != nil {
		zap.L().Fatal("snowflake node init failed", zap.Error(err))
	}
}

// GenerateID returns a new id as int64.
func GenerateID() int64 {
	nodeOnce.Do(initNode)
	return node.Generate().Int64()
}

// GenerateIDString returns a new id in decimal string form.
func GenerateIDString() string {
	nodeOnce.Do(initNode)
	return node.Generate().String()
}
