package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, CleanDataFormatVersion, info.DataFormat)
}

func TestVersionStrings(t *testing.T) {
	assert.Contains(t, GetVersionString(), Version)
	assert.Contains(t, GetFullVersionString(), GetVersionString())
	assert.Contains(t, GetFullVersionString(), runtime.GOOS+"/"+runtime.GOARCH)
	assert.False(t, IsPrerelease())
}
