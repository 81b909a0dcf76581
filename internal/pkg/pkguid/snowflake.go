package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// epoch is Mon Jan 05 2026 00:00:00 UTC, in milliseconds.
const epoch int64 = 1767571200000

//nolint:gochecknoglobals // snowflake.Epoch is package-global in the library
var setEpoch sync.Once

// Snowflake generates time-ordered numeric IDs.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	err := binary.Read(rand.Reader, binary.BigEndian, &nodeID)
	if err != nil {
		return 0, err
	}

	return nodeID & (1<<snowflake.NodeBits - 1), nil
}

// NewSnowflake constructs a Snowflake generator with a random node ID.
func NewSnowflake() (*Snowflake, error) {
	nodeID, err := generateRandomNodeID()
	if err != nil {
		return nil, err
	}

	setEpoch.Do(func() { snowflake.Epoch = epoch })

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// Strings adapts the generator to StringID, emitting base-10 IDs.
func (s *Snowflake) Strings() StringID {
	return snowflakeString{node: s.node}
}

type snowflakeString struct {
	node *snowflake.Node
}

func (s snowflakeString) Generate() string {
	return s.node.Generate().String()
}
