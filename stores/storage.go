// Package stores selects a ProjectStore implementation from the environment.
package stores

import (
	"os"

	"github.com/sirupsen/logrus"

	"scenery/core"
	"scenery/stores/filesystem"
	"scenery/stores/httpstore"
	"scenery/stores/memory"
	"scenery/stores/sqlite"
)

// GetStore picks the backing store from STORAGE_TYPE:
// "filesystem" (LOCAL_STORAGE_PATH), "sqlite" (DATA_SOURCE_NAME),
// "http" (STORAGE_URL), or in-memory by default.
func GetStore() (core.ProjectStore, error) {
	storageType := os.Getenv("STORAGE_TYPE")

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	var (
		store core.ProjectStore
		err   error
	)
	switch storageType {
	case "filesystem":
		basePath := os.Getenv("LOCAL_STORAGE_PATH")
		if basePath == "" {
			basePath = "./data/projects"
		}
		storageField["basePath"] = basePath
		store, err = filesystem.NewProjectStore(basePath)
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "./data/scenery.db"
		}
		storageField["dataSourceName"] = dataSourceName
		store, err = sqlite.NewProjectStore(dataSourceName)
	case "http":
		baseURL := os.Getenv("STORAGE_URL")
		storageField["baseURL"] = baseURL
		store = httpstore.NewProjectStore(baseURL)
	default:
		store = memory.NewProjectStore()
		storageField["storageType"] = "in-memory"
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store, nil
}
