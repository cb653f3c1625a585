// Package regioninfo provides lookup of per-region facts.
package regioninfo

// FactName identifies a regional fact.
type FactName string

const (
	// DefaultCustomResourceRuntime is the Lambda runtime used for
	// framework-provisioned custom resource handlers in a region.
	DefaultCustomResourceRuntime FactName = "default-custom-resource-runtime"
)

// facts holds per-region overrides. Regions behave like the fallback unless
// listed here.
var facts = map[string]map[FactName]string{
	"cn-north-1": {
		DefaultCustomResourceRuntime: "nodejs18.x",
	},
	"cn-northwest-1": {
		DefaultCustomResourceRuntime: "nodejs18.x",
	},
	"us-iso-east-1": {
		DefaultCustomResourceRuntime: "nodejs18.x",
	},
	"us-isob-east-1": {
		DefaultCustomResourceRuntime: "nodejs18.x",
	},
}

// RegionalFact returns the value of a fact in a region, or fallback when the
// region is unknown, the fact is not recorded for it, or the region is not
// resolved until deploy time (empty string).
func RegionalFact(region string, name FactName, fallback string) string {
	if regionFacts, ok := facts[region]; ok {
		if value, ok := regionFacts[name]; ok {
			return value
		}
	}
	return fallback
}
