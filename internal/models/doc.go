// Package models defines the core domain models for petpals.
//
// # Tenancy
//
// An Organization is the isolation boundary. Every Todo, Pet, HistoryEntry and
// Message row carries exactly one OrgID, and nothing outside the guard package
// reads or writes those rows directly.
//
//   - Organization: the tenant itself, created by its owner
//   - Membership: a user's role inside one organization
//   - Todo: a shared task on the organization's list
//   - Pet: the single virtual pet owned by the organization
//   - HistoryEntry: append-only audit record of todo and pet interactions
//   - Message: a chat line posted to the organization
//
// Users live outside any tenant and may hold memberships in many organizations.
//
// # Conventions
//
//  1. IDs are UUID strings assigned by the store when empty
//  2. Timestamps are Unix seconds
//  3. Relationships use ID strings, never pointers
package models
