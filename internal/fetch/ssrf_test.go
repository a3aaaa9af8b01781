package fetch

import (
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSafeTargetRejectsNonHTTPScheme(t *testing.T) {
	u, _ := url.Parse("file:///etc/passwd")
	err := checkSafeTarget(u)
	assert.Error(t, err)
}

func TestCheckSafeTargetRejectsLoopbackLiteral(t *testing.T) {
	u, _ := url.Parse("http://127.0.0.1/admin")
	err := checkSafeTarget(u)
	assert.Error(t, err)
}

func TestCheckSafeTargetRejectsPrivateLiteral(t *testing.T) {
	u, _ := url.Parse("http://10.0.0.5/internal")
	err := checkSafeTarget(u)
	assert.Error(t, err)
}

func TestIsPublicAddressClassification(t *testing.T) {
	assert.False(t, isPublicAddress(net.ParseIP("127.0.0.1")))
	assert.False(t, isPublicAddress(net.ParseIP("192.168.1.1")))
	assert.False(t, isPublicAddress(net.ParseIP("169.254.1.1")))
	assert.True(t, isPublicAddress(net.ParseIP("8.8.8.8")))
}
