package test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"testing"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var suiteNameRegexp = regexp.MustCompile(`^(.+?)_test\.[^/]+$`)

// Test runs the ginkgo specs of the calling package under the package's import path
func Test(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, suiteName(3))
}

// LoadFixture reads a file relative to the directory of the package under test
func LoadFixture(relativePath string) ([]byte, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(wd, filepath.FromSlash(relativePath)))
}

// DecodeFixture unmarshals a json fixture into a new value of type T
func DecodeFixture[T any](relativePath string) (T, error) {
	var result T
	data, err := LoadFixture(relativePath)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("unable to decode fixture %s: %w", relativePath, err)
	}
	return result, nil
}

func suiteName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if matches := suiteNameRegexp.FindStringSubmatch(runtime.FuncForPC(pc).Name()); matches != nil {
		return matches[1]
	}
	return ""
}
