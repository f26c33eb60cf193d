package planner

// DistributeByType deals pending tickets round-robin across the active groups,
// one ticket type at a time, ignoring geography. Types are processed in order
// of first appearance in the snapshot and the dealing cursor carries across
// types, reproducing the behavior operators expect from the legacy screen.
func DistributeByType(snap *Snapshot, groups int) Distribution {
	groups = clampGroups(groups)

	typeOrder := []string{}
	byType := map[string][]string{}
	for _, t := range snap.PendingTickets() {
		if _, seen := byType[t.Type]; !seen {
			typeOrder = append(typeOrder, t.Type)
		}
		byType[t.Type] = append(byType[t.Type], t.ID)
	}

	dist := make(Distribution, groups)
	for g := 0; g < groups; g++ {
		dist[GroupLabels[g]] = []string{}
	}
	cursor := 0
	for _, ticketType := range typeOrder {
		for _, id := range byType[ticketType] {
			label := GroupLabels[cursor%groups]
			dist[label] = append(dist[label], id)
			cursor++
		}
	}
	return dist
}
