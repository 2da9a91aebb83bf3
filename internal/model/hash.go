package model

import (
	"fmt"
	"strings"
)

// Hash is a 31-multiplier string hash over bytes, wrapped to 32 bits and
// folded to a non-negative value. Authority and observers derive the same
// jersey numbers and goalkeepers from it without exchanging them.
func Hash(s string) int {
	var h int32
	for i := 0; i < len(s); i++ {
		h = h*31 + int32(s[i])
	}
	if h < 0 {
		// -MinInt32 overflows; fold it onto 0.
		if h == -1<<31 {
			return 0
		}
		h = -h
	}
	return int(h)
}

// JerseyFor derives a number in 1..JerseyMax from identity, team and slot.
func JerseyFor(owner string, team Team, slot int) int {
	return Hash(fmt.Sprintf("%s-%s-%d", owner, team, slot))%JerseyMax + 1
}

// GoalkeeperIndex picks a slot from the ordered ids of one team.
func GoalkeeperIndex(ids []string, salt string) int {
	if len(ids) == 0 {
		return -1
	}
	return Hash(salt+"-"+strings.Join(ids, "|")) % len(ids)
}
