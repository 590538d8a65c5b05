// Package domain contains the core entities of the task tracker: tasks,
// their closed set of statuses, and the validation rules every stored task
// must satisfy. It has no dependency on storage or delivery mechanisms.
package domain
