package model

import "fmt"

// TimeSlot is one fixed 30-minute block of the program day. Slot IDs are
// sequential; two slots are adjacent when their IDs differ by exactly 1.
type TimeSlot struct {
	ID        int    `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Display   string `json:"display"`
}

// DefaultTimeSlots returns the nine 30-minute slots from 10:00 to 14:30.
func DefaultTimeSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, 9)
	hour, min := 10, 0
	for i := 1; i <= 9; i++ {
		start := fmt.Sprintf("%02d:%02d", hour, min)
		min += 30
		if min == 60 {
			hour++
			min = 0
		}
		end := fmt.Sprintf("%02d:%02d", hour, min)
		slots = append(slots, TimeSlot{
			ID:        i,
			StartTime: start,
			EndTime:   end,
			Display:   start + " - " + end,
		})
	}
	return slots
}
