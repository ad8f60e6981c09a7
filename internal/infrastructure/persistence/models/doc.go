// Package models contains GORM persistence models that map to the tables created
// by the SQL migrations in the migrations directory.
//
// Region and Category map to domain entities in internal/domain/catalog and are the
// only models written by this service (through the seeder). The marketplace models
// (users, listings, offers, negotiations, swaps, transactions) mirror the rest of the
// schema so the migrations can be checked against them.
package models
