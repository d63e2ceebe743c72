package model

import "fmt"

// ComponentType classifies a detected architectural unit.
// The set is closed: unknown values are rejected during validation.
type ComponentType string

const (
	TypeNpmPackage    ComponentType = "npm-package"
	TypeGoPackage     ComponentType = "go-package"
	TypePythonPackage ComponentType = "python-package"
	TypeRustPackage   ComponentType = "rust-package"
	TypeFramework     ComponentType = "framework"
	TypeDatabase      ComponentType = "database"
	TypeQueue         ComponentType = "queue"
	TypeInfra         ComponentType = "infra"
	TypeService       ComponentType = "service"
	TypeLLMProvider   ComponentType = "llm-provider"
	TypeAPIEndpoint   ComponentType = "api-endpoint"
	TypeDBTable       ComponentType = "db-table"
	TypePrompt        ComponentType = "prompt"
	TypeWorker        ComponentType = "worker"
	TypeUIComponent   ComponentType = "ui-component"
	TypeOther         ComponentType = "other"
)

var validComponentTypes = map[ComponentType]bool{
	TypeNpmPackage: true, TypeGoPackage: true, TypePythonPackage: true,
	TypeRustPackage: true, TypeFramework: true, TypeDatabase: true,
	TypeQueue: true, TypeInfra: true, TypeService: true,
	TypeLLMProvider: true, TypeAPIEndpoint: true, TypeDBTable: true,
	TypePrompt: true, TypeWorker: true, TypeUIComponent: true, TypeOther: true,
}

// IsPackageType reports whether a component type is one of the
// package-manager variants. Used by diff significance classification.
func (t ComponentType) IsPackageType() bool {
	switch t {
	case TypeNpmPackage, TypeGoPackage, TypePythonPackage, TypeRustPackage:
		return true
	}
	return false
}

// Layer classifies a component's architectural tier
type Layer string

const (
	LayerFrontend Layer = "frontend"
	LayerBackend  Layer = "backend"
	LayerDatabase Layer = "database"
	LayerQueue    Layer = "queue"
	LayerInfra    Layer = "infra"
	LayerExternal Layer = "external"
)

var validLayers = map[Layer]bool{
	LayerFrontend: true, LayerBackend: true, LayerDatabase: true,
	LayerQueue: true, LayerInfra: true, LayerExternal: true,
}

// ParseLayer validates a layer string. Unknown values are an error; callers
// that want a non-crashing fallback use LayerExternal explicitly (see the
// legacy snapshot migration in internal/diff).
func ParseLayer(s string) (Layer, error) {
	l := Layer(s)
	if !validLayers[l] {
		return "", fmt.Errorf("invalid layer %q", s)
	}
	return l, nil
}

// ConnectionType classifies a directed relationship between components
type ConnectionType string

const (
	ConnAPICallsDB       ConnectionType = "api-calls-db"
	ConnFrontendCallsAPI ConnectionType = "frontend-calls-api"
	ConnQueueTriggers    ConnectionType = "queue-triggers"
	ConnServiceCall      ConnectionType = "service-call"
	ConnImports          ConnectionType = "imports"
	ConnDeploysTo        ConnectionType = "deploys-to"
	ConnPromptLocation   ConnectionType = "prompt-location"
	ConnPromptUsage      ConnectionType = "prompt-usage"
	ConnUsesPackage      ConnectionType = "uses-package"
	ConnRendersComponent ConnectionType = "renders-component"
	ConnRoutesTo         ConnectionType = "routes-to"
	ConnWorkerConsumes   ConnectionType = "worker-consumes"
)

var validConnectionTypes = map[ConnectionType]bool{
	ConnAPICallsDB: true, ConnFrontendCallsAPI: true, ConnQueueTriggers: true,
	ConnServiceCall: true, ConnImports: true, ConnDeploysTo: true,
	ConnPromptLocation: true, ConnPromptUsage: true, ConnUsesPackage: true,
	ConnRendersComponent: true, ConnRoutesTo: true, ConnWorkerConsumes: true,
}

// Status represents a component's lifecycle status
type Status string

const (
	StatusActive     Status = "active"
	StatusOutdated   Status = "outdated"
	StatusDeprecated Status = "deprecated"
	StatusVulnerable Status = "vulnerable"
	StatusUnused     Status = "unused"
	StatusRemoved    Status = "removed"
)

var validStatuses = map[Status]bool{
	StatusActive: true, StatusOutdated: true, StatusDeprecated: true,
	StatusVulnerable: true, StatusUnused: true, StatusRemoved: true,
}

// Classification describes the semantic role of a connection's code path
type Classification string

const (
	ClassProduction Classification = "production"
	ClassAdmin      Classification = "admin"
	ClassAnalytics  Classification = "analytics"
	ClassTest       Classification = "test"
	ClassDevOnly    Classification = "dev-only"
	ClassMigration  Classification = "migration"
	ClassUnknown    Classification = "unknown"
)

var validClassifications = map[Classification]bool{
	ClassProduction: true, ClassAdmin: true, ClassAnalytics: true,
	ClassTest: true, ClassDevOnly: true, ClassMigration: true,
	ClassUnknown: true,
}

// Severity is the ordinal impact classification for a component change
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Significance is the ordinal classification of a snapshot diff
type Significance string

const (
	SignificanceMajor Significance = "major"
	SignificanceMinor Significance = "minor"
	SignificancePatch Significance = "patch"
)
