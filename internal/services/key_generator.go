package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahmad-alkadri/lob-depot/internal/config"
)

// DefaultKeyGenerator partitions keys by caller and calendar day.
//
// Keys have the form {caller}/year=YYYY/month=MM/day=DD/{filename}. The
// filename depends on the policy:
//
//	micro:  {caller}-{YYYYMMDDHHMMSSffffff}.json
//	second: webhook-{unix_seconds}.json
//
// Two payloads for the same caller in the same microsecond (micro) or second
// (second) get the same key and the later write overwrites the earlier one,
// unless uniqueSuffix appends a random UUID.
type DefaultKeyGenerator struct {
	policy       string
	uniqueSuffix bool
	location     *time.Location
	newUUID      func() string
}

// NewDefaultKeyGenerator creates a key generator for the given policy
func NewDefaultKeyGenerator(policy string, uniqueSuffix bool, location *time.Location) *DefaultKeyGenerator {
	if location == nil {
		location = time.UTC
	}
	return &DefaultKeyGenerator{
		policy:       policy,
		uniqueSuffix: uniqueSuffix,
		location:     location,
		newUUID:      uuid.NewString,
	}
}

// Generate creates the storage key for a payload received at the given time
func (g *DefaultKeyGenerator) Generate(caller string, at time.Time) string {
	return g.DayPrefix(caller, at) + g.filename(caller, at)
}

// DayPrefix returns the partition prefix holding every key of that day
func (g *DefaultKeyGenerator) DayPrefix(caller string, day time.Time) string {
	local := day.In(g.location)
	return fmt.Sprintf("%s/year=%04d/month=%02d/day=%02d/", caller, local.Year(), int(local.Month()), local.Day())
}

func (g *DefaultKeyGenerator) filename(caller string, at time.Time) string {
	var base string
	if g.policy == config.KeyPolicySecond {
		base = fmt.Sprintf("webhook-%d", at.Unix())
	} else {
		local := at.In(g.location)
		base = fmt.Sprintf("%s-%s%06d", caller, local.Format("20060102150405"), local.Nanosecond()/int(time.Microsecond))
	}
	if g.uniqueSuffix {
		base += "-" + g.newUUID()
	}
	return base + ".json"
}
