// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package hierarchy

// Ids of the built-in taxonomy.
const (
	TypeEntity   = 0
	TypePlayer   = 81
	TypeSelf     = 82
	TypeOther    = 83
	TypeModifier = 84
)

// DefaultTree builds the built-in taxonomy:
//
//	Root
//	  Entity
//	    Player
//	      Self
//	      Other
//	  Modifier
func DefaultTree() *Node {
	return NewNode(RootID, "Root").AddChild(
		NewNode(TypeEntity, "Entity").AddChild(
			NewNode(TypePlayer, "Player").AddChild(
				NewNode(TypeSelf, "Self"),
				NewNode(TypeOther, "Other"),
			),
		),
		NewNode(TypeModifier, "Modifier"),
	)
}
