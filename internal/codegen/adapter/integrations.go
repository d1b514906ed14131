package adapter

const instrumentationModulePrefix = "@opentelemetry/instrumentation-"

// Integration is one library supported by the Node auto-instrumentations
type Integration struct {
	// Key is the flag name used in AutomaticTracingOptions.Integrations
	Key string
	// Module is the instrumentation package configured in the generated code
	Module string
	// Package is the npm package whose presence suggests enabling the
	// integration; empty for Node built-ins.
	Package string
}

func integration(key, name, pkg string) Integration {
	return Integration{Key: key, Module: instrumentationModulePrefix + name, Package: pkg}
}

var nodeIntegrations = []Integration{
	integration("amqplib", "amqplib", "amqplib"),
	integration("aws-lambda", "aws-lambda", ""),
	integration("aws-sdk", "aws-sdk", "aws-sdk"),
	integration("bunyan", "bunyan", "bunyan"),
	integration("cassandra-driver", "cassandra-driver", "cassandra-driver"),
	integration("connect", "connect", "connect"),
	integration("cucumber", "cucumber", "@cucumber/cucumber"),
	integration("dataloader", "dataloader", "dataloader"),
	integration("dns", "dns", ""),
	integration("express", "express", "express"),
	integration("fastify", "fastify", "fastify"),
	integration("fs", "fs", ""),
	integration("generic-pool", "generic-pool", "generic-pool"),
	integration("graphql", "graphql", "graphql"),
	integration("grpc", "grpc", "@grpc/grpc-js"),
	integration("hapi", "hapi", "@hapi/hapi"),
	integration("http", "http", ""),
	integration("ioredis", "ioredis", "ioredis"),
	integration("kafkajs", "kafkajs", "kafkajs"),
	integration("knex", "knex", "knex"),
	integration("koa", "koa", "koa"),
	integration("lru-memoizer", "lru-memoizer", "lru-memoizer"),
	integration("memcached", "memcached", "memcached"),
	integration("mongodb", "mongodb", "mongodb"),
	integration("mongoose", "mongoose", "mongoose"),
	integration("mysql", "mysql", "mysql"),
	integration("mysql2", "mysql2", "mysql2"),
	integration("nestjs-core", "nestjs-core", "@nestjs/core"),
	integration("net", "net", ""),
	integration("pg", "pg", "pg"),
	integration("pino", "pino", "pino"),
	integration("redis", "redis", "redis"),
	integration("redis-4", "redis-4", ""),
	integration("restify", "restify", "restify"),
	integration("router", "router", "router"),
	integration("socket-io", "socket.io", "socket.io"),
	integration("tedious", "tedious", "tedious"),
	integration("undici", "undici", "undici"),
	integration("winston", "winston", "winston"),
}

// NodeIntegrations returns the supported Node integrations in rendering order
func NodeIntegrations() []Integration {
	out := make([]Integration, len(nodeIntegrations))
	copy(out, nodeIntegrations)
	return out
}

// LookupIntegration finds an integration by its flag key
func LookupIntegration(key string) (Integration, bool) {
	for _, in := range nodeIntegrations {
		if in.Key == key {
			return in, true
		}
	}
	return Integration{}, false
}
