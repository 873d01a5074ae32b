package integration

import (
	"testing"

	"github.com/zoobzio/dql/mssql"
)

func TestMSSQL(t *testing.T) {
	skipShort(t)
	runLibrary(t, getMSSQL(t), mssql.New())
}
