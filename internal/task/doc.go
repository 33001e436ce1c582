// Package task owns the day's task list and its text file.
//
// The task file stores one block per task, in list order:
//
//	Task 1
//	Description: Write report
//	Time: 14:30
//	Status: Pending
//	Carried: No
//	---
//
// Blocks are not separated by blank lines and the file ends after the last
// "---". Status is "Done" or "Pending" and Carried is "Yes" or "No"; any other
// value reads as the false case.
//
// # Numbering
//
// Task numbers are always dense: after every mutation the task at index i has
// number i+1. Delete renumbers every task after the removed one.
//
// # Loading
//
// A missing file is an empty list. Parsing stops at the first block that does
// not parse and keeps what was read before it, so a truncated file loses only
// its tail.
//
// # Reminders
//
// CheckReminders fires for a pending task only when the given clock equals the
// task's due time minus the reminder lead (15 minutes by default), to the
// minute. Alerts that would fall before midnight never fire.
package task
