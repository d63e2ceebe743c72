package scan

import (
	"context"
	"testing"

	"archmap/internal/model"
)

func TestImportScannerJS(t *testing.T) {
	content := `import { Pool } from 'pg'
import leftpad from 'leftpad'
import { helper } from './util'
import { PrismaClient } from '@prisma/client/runtime'
`
	scanner := NewImportScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "src/db.ts", Content: content},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	// Unknown packages and relative imports stay invisible.
	if len(result.Components) != 2 {
		t.Fatalf("Expected 2 components, got %d", len(result.Components))
	}
	pg := findComponent(result, "pg")
	if pg == nil || pg.Type != model.TypeDatabase {
		t.Fatalf("Expected pg database component, got %+v", pg)
	}
	if pg.Source.Confidence != importDetectionConfidence {
		t.Errorf("Import detection scores %f, got %f", importDetectionConfidence, pg.Source.Confidence)
	}
	// Deep scoped import trims to the package root.
	if findComponent(result, "@prisma/client") == nil {
		t.Error("Expected deep import trimmed to @prisma/client")
	}

	if len(result.Connections) != 2 {
		t.Fatalf("Expected 2 connections, got %d", len(result.Connections))
	}
	conn := result.Connections[0]
	if conn.Type != model.ConnImports {
		t.Errorf("Expected imports connection, got %s", conn.Type)
	}
	if conn.From.ComponentID != "file:src/db.ts" || conn.From.Line != 1 {
		t.Errorf("Expected file placeholder at line 1, got %s:%d", conn.From.ComponentID, conn.From.Line)
	}
}

func TestImportScannerDedupAcrossFiles(t *testing.T) {
	scanner := NewImportScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "src/a.ts", Content: `import Redis from 'ioredis'`},
		{Path: "src/b.ts", Content: `const Redis = require('ioredis')`},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(result.Components) != 1 {
		t.Fatalf("Expected one deduplicated component, got %d", len(result.Components))
	}
	if len(result.Connections) != 2 {
		t.Errorf("Expected one connection per importing file, got %d", len(result.Connections))
	}
	files := result.Components[0].Source.ConfigFiles
	if len(files) != 2 {
		t.Errorf("Expected both files recorded, got %v", files)
	}
}

func TestImportScannerGo(t *testing.T) {
	content := `package main

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

import "github.com/lib/pq"
`
	scanner := NewImportScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "cmd/server/main.go", Content: content},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(result.Components) != 2 {
		t.Fatalf("Expected 2 components (stdlib skipped), got %d", len(result.Components))
	}
	if findComponent(result, "gorm.io/gorm") == nil {
		t.Error("Expected gorm detected from import block")
	}
	if findComponent(result, "github.com/lib/pq") == nil {
		t.Error("Expected pq detected from single-line import")
	}
}

func TestImportScannerPython(t *testing.T) {
	content := `from django.conf import settings
import celery
from . import models
`
	scanner := NewImportScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "app/tasks.py", Content: content},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if findComponent(result, "django") == nil {
		t.Error("Expected dotted module trimmed to django")
	}
	if findComponent(result, "celery") == nil {
		t.Error("Expected celery detected")
	}
	if len(result.Components) != 2 {
		t.Errorf("Relative imports must be skipped, got %d components", len(result.Components))
	}
}

func TestImportScannerRust(t *testing.T) {
	content := `use std::collections::HashMap;
use actix_web::web;
use crate::handlers;
`
	scanner := NewImportScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "src/main.rs", Content: content},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	// Underscored crate names map back to their hyphenated Cargo names.
	if len(result.Components) != 1 || result.Components[0].Name != "actix-web" {
		t.Fatalf("Expected actix-web only, got %+v", result.Components)
	}
}

func TestImportScannerHTTPCalls(t *testing.T) {
	content := `async function load() {
  const users = await fetch('/api/users')
  const charge = await axios.post('https://api.stripe.com/v1/charges', body)
  const local = await fetch('http://localhost:3000/health')
  return users
}
`
	scanner := NewImportScanner()
	result, err := scanner.Scan(context.Background(), []SourceFile{
		{Path: "src/client.ts", Content: content},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(result.Components) != 2 {
		t.Fatalf("Expected endpoint and external service, got %d components", len(result.Components))
	}
	endpoint := findComponent(result, "/api/users")
	if endpoint == nil || endpoint.Type != model.TypeAPIEndpoint {
		t.Fatalf("Expected /api/users api-endpoint, got %+v", endpoint)
	}
	external := findComponent(result, "api.stripe.com")
	if external == nil || external.Role.Layer != model.LayerExternal {
		t.Fatalf("Expected external host component, got %+v", external)
	}

	var types []model.ConnectionType
	for _, conn := range result.Connections {
		types = append(types, conn.Type)
	}
	if len(types) != 2 || types[0] != model.ConnFrontendCallsAPI || types[1] != model.ConnServiceCall {
		t.Errorf("Expected frontend-calls-api then service-call, got %v", types)
	}
}

func TestNpmPackageRoot(t *testing.T) {
	testCases := []struct {
		specifier string
		expected  string
	}{
		{"pg", "pg"},
		{"lodash/debounce", "lodash"},
		{"@prisma/client", "@prisma/client"},
		{"@aws-sdk/client-s3/commands", "@aws-sdk/client-s3"},
	}
	for _, tc := range testCases {
		if got := npmPackageRoot(tc.specifier); got != tc.expected {
			t.Errorf("npmPackageRoot(%q) = %q, expected %q", tc.specifier, got, tc.expected)
		}
	}
}

func TestGoModuleRoot(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"gorm.io/gorm", "gorm.io/gorm"},
		{"github.com/lib/pq", "github.com/lib/pq"},
		{"github.com/aws/aws-sdk-go-v2/service/s3", "github.com/aws/aws-sdk-go-v2"},
	}
	for _, tc := range testCases {
		if got := goModuleRoot(tc.path); got != tc.expected {
			t.Errorf("goModuleRoot(%q) = %q, expected %q", tc.path, got, tc.expected)
		}
	}
}

func TestRouteName(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
	}{
		{"/api/users", "/api/users"},
		{"/api/users?page=2", "/api/users"},
		{"/api/users/", "/api/users"},
	}
	for _, tc := range testCases {
		if got := routeName(tc.url); got != tc.expected {
			t.Errorf("routeName(%q) = %q, expected %q", tc.url, got, tc.expected)
		}
	}
}
