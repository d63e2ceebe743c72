package sigtables

import (
	"strings"

	"archmap/internal/model"
)

// ImageSignature describes a known container image family
type ImageSignature struct {
	Name    string
	Type    model.ComponentType
	Layer   model.Layer
	Purpose string
}

// Images maps container image name prefixes (registry/tag stripped) to
// component metadata. Matched by prefix so "postgres:16-alpine" and
// "bitnami/postgresql" both resolve.
var Images = []ImageSignature{
	{"postgres", model.TypeDatabase, model.LayerDatabase, "PostgreSQL database"},
	{"mysql", model.TypeDatabase, model.LayerDatabase, "MySQL database"},
	{"mariadb", model.TypeDatabase, model.LayerDatabase, "MariaDB database"},
	{"mongo", model.TypeDatabase, model.LayerDatabase, "MongoDB database"},
	{"redis", model.TypeDatabase, model.LayerDatabase, "Redis store"},
	{"valkey", model.TypeDatabase, model.LayerDatabase, "Valkey store"},
	{"elasticsearch", model.TypeDatabase, model.LayerDatabase, "Elasticsearch index"},
	{"opensearch", model.TypeDatabase, model.LayerDatabase, "OpenSearch index"},
	{"clickhouse", model.TypeDatabase, model.LayerDatabase, "ClickHouse database"},
	{"rabbitmq", model.TypeQueue, model.LayerQueue, "RabbitMQ broker"},
	{"kafka", model.TypeQueue, model.LayerQueue, "Kafka broker"},
	{"nats", model.TypeQueue, model.LayerQueue, "NATS server"},
	{"minio", model.TypeInfra, model.LayerInfra, "Object storage"},
	{"nginx", model.TypeInfra, model.LayerInfra, "Reverse proxy"},
	{"traefik", model.TypeInfra, model.LayerInfra, "Reverse proxy"},
	{"memcached", model.TypeDatabase, model.LayerDatabase, "Memcached store"},
	{"qdrant", model.TypeDatabase, model.LayerDatabase, "Vector database"},
	{"neo4j", model.TypeDatabase, model.LayerDatabase, "Graph database"},
}

// LookupImage resolves a container image reference against the table.
// The registry prefix and tag are stripped before matching.
func LookupImage(imageRef string) (ImageSignature, bool) {
	name := imageRef
	if i := strings.LastIndex(name, ":"); i > 0 && !strings.Contains(name[i:], "/") {
		name = name[:i] // strip tag, keep registry ports intact
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ToLower(name)
	for _, sig := range Images {
		if strings.HasPrefix(name, sig.Name) {
			return sig, true
		}
	}
	return ImageSignature{}, false
}
