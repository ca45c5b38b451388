// Package database provides connection and pool management, health checks,
// configuration loading, SQL error classification, logging, and related
// utilities built on top of Bun. The record package consumes the pooled
// connection it manages; all pooling, retry, and transaction semantics are
// delegated to database/sql and the drivers.
package database
