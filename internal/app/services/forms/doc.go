// Package forms accepts visitor contact and inquiry forms and lets admins
// triage them.
//
// Submit validates the payload against the schema for its form type and
// reports every failing field at once. It then enforces the per-IP rate limit,
// strips markup from the free text, and stores the submission with status new.
// The admin notification email is sent in the background and never fails the
// submission.
package forms
