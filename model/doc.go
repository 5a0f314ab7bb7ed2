// Package model defines the data types shared across the proofreading
// pipeline: per-character extraction records, page geometry, checker
// findings, and the final annotations handed to the PDF highlighter.
//
// All geometry is expressed in bottom-left-origin page units, matching the
// PDF coordinate system. Pages are 1-based everywhere.
//
// The types here are plain values. No component mutates a CharRecord after
// extraction, and each document-processing request owns its own slices; the
// package is safe for concurrent use across independent requests.
package model
