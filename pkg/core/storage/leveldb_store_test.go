package storage

import (
	"os"
	"testing"

	"github.com/n3core/neogo/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/require"
)

type tempLevelDB struct {
	LevelDBStore
	dir string
}

func (tldb *tempLevelDB) Close() error {
	err := tldb.LevelDBStore.Close()
	// Make test fail if failed to cleanup, even though technically it's
	// not a LevelDBStore problem.
	osErr := os.RemoveAll(tldb.dir)
	if osErr != nil {
		return osErr
	}
	return err
}

func newLevelDBForTesting(t testing.TB) Store {
	ldbDir, err := os.MkdirTemp(os.TempDir(), "testleveldb")
	require.Nil(t, err, "failed to setup temporary directory")

	dbConfig := dbconfig.DBConfiguration{
		Type: dbconfig.LevelDB,
		LevelDBOptions: dbconfig.LevelDBOptions{
			DataDirectoryPath: ldbDir,
		},
	}
	newLevelStore, err := NewLevelDBStore(dbConfig.LevelDBOptions)
	require.Nil(t, err, "NewLevelDBStore error")
	tldb := &tempLevelDB{LevelDBStore: *newLevelStore, dir: ldbDir}
	return tldb
}
