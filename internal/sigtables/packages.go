// Package sigtables holds the static signature tables the scanners consume.
// Each table maps known package, client, or image signatures to component
// metadata. Tables are pure data: supporting a new ecosystem means adding an
// entry here, never new control flow in the scanners.
package sigtables

import "archmap/internal/model"

// PackageSignature describes a known third-party package
type PackageSignature struct {
	Type     model.ComponentType
	Layer    model.Layer
	Purpose  string
	Critical bool
}

// NpmPackages maps npm package names to component metadata
var NpmPackages = map[string]PackageSignature{
	"react":             {model.TypeFramework, model.LayerFrontend, "UI framework", true},
	"react-dom":         {model.TypeFramework, model.LayerFrontend, "React DOM renderer", true},
	"next":              {model.TypeFramework, model.LayerFrontend, "React meta-framework", true},
	"vue":               {model.TypeFramework, model.LayerFrontend, "UI framework", true},
	"svelte":            {model.TypeFramework, model.LayerFrontend, "UI framework", true},
	"@angular/core":     {model.TypeFramework, model.LayerFrontend, "UI framework", true},
	"express":           {model.TypeFramework, model.LayerBackend, "HTTP server framework", true},
	"fastify":           {model.TypeFramework, model.LayerBackend, "HTTP server framework", true},
	"koa":               {model.TypeFramework, model.LayerBackend, "HTTP server framework", true},
	"@nestjs/core":      {model.TypeFramework, model.LayerBackend, "HTTP server framework", true},
	"hono":              {model.TypeFramework, model.LayerBackend, "HTTP server framework", true},
	"pg":                {model.TypeDatabase, model.LayerDatabase, "PostgreSQL client", true},
	"mysql2":            {model.TypeDatabase, model.LayerDatabase, "MySQL client", true},
	"mongodb":           {model.TypeDatabase, model.LayerDatabase, "MongoDB client", true},
	"mongoose":          {model.TypeDatabase, model.LayerDatabase, "MongoDB ODM", true},
	"@prisma/client":    {model.TypeDatabase, model.LayerDatabase, "Database ORM", true},
	"drizzle-orm":       {model.TypeDatabase, model.LayerDatabase, "Database ORM", true},
	"typeorm":           {model.TypeDatabase, model.LayerDatabase, "Database ORM", true},
	"knex":              {model.TypeDatabase, model.LayerDatabase, "SQL query builder", true},
	"better-sqlite3":    {model.TypeDatabase, model.LayerDatabase, "SQLite client", false},
	"@supabase/supabase-js": {model.TypeDatabase, model.LayerDatabase, "Supabase client", true},
	"firebase-admin":    {model.TypeDatabase, model.LayerDatabase, "Firebase admin SDK", true},
	"redis":             {model.TypeDatabase, model.LayerDatabase, "Redis client", true},
	"ioredis":           {model.TypeDatabase, model.LayerDatabase, "Redis client", true},
	"bullmq":            {model.TypeQueue, model.LayerQueue, "Job queue", true},
	"bull":              {model.TypeQueue, model.LayerQueue, "Job queue", true},
	"amqplib":           {model.TypeQueue, model.LayerQueue, "RabbitMQ client", true},
	"kafkajs":           {model.TypeQueue, model.LayerQueue, "Kafka client", true},
	"@aws-sdk/client-sqs": {model.TypeQueue, model.LayerQueue, "SQS client", true},
	"@aws-sdk/client-s3":  {model.TypeInfra, model.LayerInfra, "S3 client", false},
	"axios":             {model.TypeService, model.LayerBackend, "HTTP client", false},
	"node-fetch":        {model.TypeService, model.LayerBackend, "HTTP client", false},
	"got":               {model.TypeService, model.LayerBackend, "HTTP client", false},
	"stripe":            {model.TypeService, model.LayerExternal, "Payments API", true},
	"twilio":            {model.TypeService, model.LayerExternal, "Messaging API", false},
	"@sendgrid/mail":    {model.TypeService, model.LayerExternal, "Email API", false},
	"socket.io":         {model.TypeService, model.LayerBackend, "WebSocket server", false},
}

// GoPackages maps Go module paths to component metadata
var GoPackages = map[string]PackageSignature{
	"github.com/gin-gonic/gin":          {model.TypeFramework, model.LayerBackend, "HTTP server framework", true},
	"github.com/labstack/echo/v4":       {model.TypeFramework, model.LayerBackend, "HTTP server framework", true},
	"github.com/gofiber/fiber/v2":       {model.TypeFramework, model.LayerBackend, "HTTP server framework", true},
	"github.com/go-chi/chi/v5":          {model.TypeFramework, model.LayerBackend, "HTTP router", true},
	"github.com/jackc/pgx/v5":           {model.TypeDatabase, model.LayerDatabase, "PostgreSQL client", true},
	"github.com/lib/pq":                 {model.TypeDatabase, model.LayerDatabase, "PostgreSQL client", true},
	"gorm.io/gorm":                      {model.TypeDatabase, model.LayerDatabase, "Database ORM", true},
	"go.mongodb.org/mongo-driver":       {model.TypeDatabase, model.LayerDatabase, "MongoDB client", true},
	"github.com/redis/go-redis/v9":      {model.TypeDatabase, model.LayerDatabase, "Redis client", true},
	"modernc.org/sqlite":                {model.TypeDatabase, model.LayerDatabase, "SQLite driver", false},
	"github.com/mattn/go-sqlite3":       {model.TypeDatabase, model.LayerDatabase, "SQLite driver", false},
	"github.com/nats-io/nats.go":        {model.TypeQueue, model.LayerQueue, "NATS client", true},
	"github.com/segmentio/kafka-go":     {model.TypeQueue, model.LayerQueue, "Kafka client", true},
	"github.com/rabbitmq/amqp091-go":    {model.TypeQueue, model.LayerQueue, "RabbitMQ client", true},
	"github.com/hibiken/asynq":          {model.TypeQueue, model.LayerQueue, "Job queue", true},
	"google.golang.org/grpc":            {model.TypeService, model.LayerBackend, "gRPC framework", true},
	"github.com/aws/aws-sdk-go-v2":      {model.TypeInfra, model.LayerInfra, "AWS SDK", false},
}

// PythonPackages maps Python distribution names to component metadata
var PythonPackages = map[string]PackageSignature{
	"django":          {model.TypeFramework, model.LayerBackend, "Web framework", true},
	"flask":           {model.TypeFramework, model.LayerBackend, "Web framework", true},
	"fastapi":         {model.TypeFramework, model.LayerBackend, "Web framework", true},
	"sqlalchemy":      {model.TypeDatabase, model.LayerDatabase, "Database ORM", true},
	"psycopg2":        {model.TypeDatabase, model.LayerDatabase, "PostgreSQL client", true},
	"psycopg2-binary": {model.TypeDatabase, model.LayerDatabase, "PostgreSQL client", true},
	"pymongo":         {model.TypeDatabase, model.LayerDatabase, "MongoDB client", true},
	"redis":           {model.TypeDatabase, model.LayerDatabase, "Redis client", true},
	"celery":          {model.TypeQueue, model.LayerQueue, "Task queue", true},
	"pika":            {model.TypeQueue, model.LayerQueue, "RabbitMQ client", true},
	"kombu":           {model.TypeQueue, model.LayerQueue, "Messaging library", false},
	"requests":        {model.TypeService, model.LayerBackend, "HTTP client", false},
	"httpx":           {model.TypeService, model.LayerBackend, "HTTP client", false},
	"boto3":           {model.TypeInfra, model.LayerInfra, "AWS SDK", false},
}

// RustCrates maps crate names to component metadata
var RustCrates = map[string]PackageSignature{
	"actix-web": {model.TypeFramework, model.LayerBackend, "Web framework", true},
	"axum":      {model.TypeFramework, model.LayerBackend, "Web framework", true},
	"rocket":    {model.TypeFramework, model.LayerBackend, "Web framework", true},
	"sqlx":      {model.TypeDatabase, model.LayerDatabase, "SQL toolkit", true},
	"diesel":    {model.TypeDatabase, model.LayerDatabase, "Database ORM", true},
	"redis":     {model.TypeDatabase, model.LayerDatabase, "Redis client", true},
	"lapin":     {model.TypeQueue, model.LayerQueue, "RabbitMQ client", true},
	"rdkafka":   {model.TypeQueue, model.LayerQueue, "Kafka client", true},
	"reqwest":   {model.TypeService, model.LayerBackend, "HTTP client", false},
	"tokio":     {model.TypeFramework, model.LayerBackend, "Async runtime", true},
}

// LookupPackage finds a package signature in the table for the given
// ecosystem component type. Returns false for unknown packages; callers
// synthesize a generic package component in that case.
func LookupPackage(ecosystem model.ComponentType, name string) (PackageSignature, bool) {
	var table map[string]PackageSignature
	switch ecosystem {
	case model.TypeNpmPackage:
		table = NpmPackages
	case model.TypeGoPackage:
		table = GoPackages
	case model.TypePythonPackage:
		table = PythonPackages
	case model.TypeRustPackage:
		table = RustCrates
	default:
		return PackageSignature{}, false
	}
	sig, ok := table[name]
	return sig, ok
}
