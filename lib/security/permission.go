// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package security

import "github.com/arta-lang/arta/lib/fault"

// Decision is the outcome of a permission check.
type Decision int

const (
	// Deny means the action must not run.
	Deny Decision = iota

	// Allow means the action may run.
	Allow
)

// String returns "allow" or "deny".
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// DenyReason names the clause of the permission composition that
// refused.
type DenyReason int

const (
	// ReasonNone accompanies Allow.
	ReasonNone DenyReason = iota

	// ReasonGlobalDisabled means the global allow-actions flag is off.
	ReasonGlobalDisabled

	// ReasonContainerDisallows means the active container was created
	// without ALLOW ACTIONS.
	ReasonContainerDisallows

	// ReasonContainerReadOnly means the active container is READONLY.
	ReasonContainerReadOnly
)

// String returns the reason's stable identifier.
func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonGlobalDisabled:
		return "global-disabled"
	case ReasonContainerDisallows:
		return "container-disallows"
	case ReasonContainerReadOnly:
		return "container-readonly"
	default:
		return "unknown"
	}
}

// Subject is what a permission check is evaluated against.
type Subject struct {
	// GlobalAllowActions is the process-wide allow-actions flag.
	GlobalAllowActions bool

	// Container is the active container's name, for messages.
	Container string

	// AllowActions and ReadOnly are the active container's options.
	AllowActions bool
	ReadOnly     bool
}

// Permission is the result of [Evaluate].
type Permission struct {
	Decision Decision
	Reason   DenyReason
	Subject  Subject
}

// Allowed reports whether the decision is Allow.
func (p Permission) Allowed() bool { return p.Decision == Allow }

// Err returns a SecurityError describing the refusal, or nil when
// allowed.
func (p Permission) Err(action string) error {
	switch p.Reason {
	case ReasonNone:
		return nil
	case ReasonGlobalDisabled:
		return fault.Securityf("%s refused: actions are disabled (use --allow-actions)", action)
	case ReasonContainerReadOnly:
		return fault.Securityf("%s refused: container %q is read-only", action, p.Subject.Container)
	case ReasonContainerDisallows:
		return fault.Securityf("%s refused: container %q was created without ALLOW ACTIONS", action, p.Subject.Container)
	default:
		return fault.Securityf("%s refused", action)
	}
}

// Evaluate computes the effective permission: the global flag AND the
// container's ALLOW ACTIONS AND NOT the container's READONLY. Checks
// run in that order and the first failing clause is the reason.
func Evaluate(subject Subject) Permission {
	deny := func(reason DenyReason) Permission {
		return Permission{Decision: Deny, Reason: reason, Subject: subject}
	}
	switch {
	case !subject.GlobalAllowActions:
		return deny(ReasonGlobalDisabled)
	case subject.ReadOnly:
		return deny(ReasonContainerReadOnly)
	case !subject.AllowActions:
		return deny(ReasonContainerDisallows)
	}
	return Permission{Decision: Allow, Reason: ReasonNone, Subject: subject}
}
