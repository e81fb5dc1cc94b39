package marketplace

// reconcile decides which record to commit after an optimistic mutation.
//
// Contract: given the optimistic, client-built record and the authoritative
// server version (nil when remote mode is off or the remote call failed),
// it returns the next state for that record:
//
//   - authoritative present  -> the server version wins wholesale, including
//     any server-assigned identifier;
//   - authoritative absent   -> the optimistic record stays, to be replaced
//     if a later sync ever returns a server version.
//
// Callers merge the result into the collection by replacing the entry that
// carries the optimistic ID, so a server-assigned ID supersedes the client
// one instead of duplicating the record.
func reconcile[T any](optimistic T, authoritative *T) T {
	if authoritative != nil {
		return *authoritative
	}
	return optimistic
}

// upsert replaces the entry whose ID matches optimisticID with next, or
// prepends next when no entry matches. Prepending keeps the newest record
// first, matching the feed ordering the views expect.
func upsert[T any](list []T, optimisticID string, next T, idOf func(T) string) []T {
	for i := range list {
		if idOf(list[i]) == optimisticID {
			list[i] = next
			return list
		}
	}
	return append([]T{next}, list...)
}

// remove drops the entry whose ID matches id, if present.
func remove[T any](list []T, id string, idOf func(T) string) []T {
	for i := range list {
		if idOf(list[i]) == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
