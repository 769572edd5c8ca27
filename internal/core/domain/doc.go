// Package domain contains the core business types for captor.
// These types have no dependencies on infrastructure - they represent
// the contact capture pipeline's data contracts between stages.
package domain
