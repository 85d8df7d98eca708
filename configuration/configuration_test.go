package configuration

import (
	"bytes"
	"testing"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner
func Test(t *testing.T) { TestingT(t) }

var _ = Suite(&ConfigSuite{})

type ConfigSuite struct{}

var sampleConfigYaml = `
version: "0.1"
log:
  level: debug
  fields:
    environment: test
resolvers:
  - redirect:
      from: wrap://old/pkg
      to: wrap://new/pkg
  - s3:
      bucket: my-bucket
      region: us-east-1
redirects:
  - from: wrap://a/b
    to: wrap://c/d
env:
  - uri: wrap://a/b
    value: configured-env
debug:
  addr: ":8090"
  metrics: true
`

func (s *ConfigSuite) TestParseDecodesResolverKinds(c *C) {
	cfg, err := Parse(bytes.NewBufferString(sampleConfigYaml))
	c.Assert(err, IsNil)
	c.Assert(cfg.Version, Equals, "0.1")
	c.Assert(cfg.Log.Level, Equals, "debug")
	c.Assert(len(cfg.Resolvers), Equals, 2)
	c.Assert(cfg.Resolvers[0].Kind, Equals, "redirect")
	c.Assert(cfg.Resolvers[1].Kind, Equals, "s3")
	c.Assert(cfg.Resolvers[1].Parameters["bucket"], Equals, "my-bucket")
	c.Assert(len(cfg.Redirects), Equals, 1)
	c.Assert(cfg.Redirects[0].From, Equals, "wrap://a/b")
	c.Assert(cfg.Debug.Metrics, Equals, true)
}

func (s *ConfigSuite) TestParseRejectsMissingVersion(c *C) {
	_, err := Parse(bytes.NewBufferString("log:\n  level: debug\n"))
	c.Assert(err, NotNil)
}

func (s *ConfigSuite) TestParseRejectsMultiKeyResolverEntry(c *C) {
	bad := "version: \"0.1\"\nresolvers:\n  - redirect: {}\n    s3: {}\n"
	_, err := Parse(bytes.NewBufferString(bad))
	c.Assert(err, NotNil)
}
