// Package models defines the gorm models of the receiving site's store.
//
// Tables mirror a content site: posts (attachments included), users, terms
// with their relationships, comments, options, plus the identity_mappings
// table linking remote ids to local ids and the post_connections table
// filled from synced connection payloads. Meta columns are JSON
// (gorm.io/datatypes) so arbitrary remote meta survives a round trip.
package models
