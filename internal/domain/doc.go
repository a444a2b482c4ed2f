// Package domain contains the core business entities and value objects of the
// task service: users, tasks, and their embedded recurrence patterns. It also
// owns the identifier scheme and the explicit validators that return a
// structured pass/fail result, independent of any storage or delivery mechanism.
package domain
