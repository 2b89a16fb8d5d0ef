package achievements

import "time"

// Complete marks ref completed at now. When that finishes its tier, every
// locked achievement of the next tier becomes available; the number of
// achievements unlocked that way is returned. Completing a completed
// achievement is a no-op.
func (d *Document) Complete(ref Ref, now time.Time) (int, error) {
	a, err := d.Get(ref)
	if err != nil {
		return 0, err
	}
	switch a.Status {
	case StatusCompleted:
		return 0, nil
	case StatusLocked:
		return 0, ErrLocked
	}

	ts := now.UTC()
	a.Status = StatusCompleted
	a.DateCompleted = &ts

	return d.cascade(ref.Domain, ref.Tier), nil
}

// cascade unlocks the tier after t once t is done.
func (d *Document) cascade(domain, t int) int {
	cur, err := d.tier(domain, t)
	if err != nil || !cur.Done() {
		return 0
	}
	next, err := d.tier(domain, t+1)
	if err != nil {
		return 0
	}
	unlocked := 0
	for i := range next.Achievements {
		if next.Achievements[i].Status == StatusLocked {
			next.Achievements[i].Status = StatusAvailable
			unlocked++
		}
	}
	return unlocked
}

// SetTitle replaces an achievement's title.
func (d *Document) SetTitle(ref Ref, title string) error {
	a, err := d.Get(ref)
	if err != nil {
		return err
	}
	a.Title = title
	return nil
}

// SetDescription replaces an achievement's description.
func (d *Document) SetDescription(ref Ref, desc string) error {
	a, err := d.Get(ref)
	if err != nil {
		return err
	}
	a.Description = desc
	return nil
}

// SetStatus forces a status. Completed stamps now; any other status clears
// the completion date. No cascade runs.
func (d *Document) SetStatus(ref Ref, status Status, now time.Time) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	a, err := d.Get(ref)
	if err != nil {
		return err
	}
	a.Status = status
	if status == StatusCompleted {
		ts := now.UTC()
		a.DateCompleted = &ts
	} else {
		a.DateCompleted = nil
	}
	return nil
}

// UnlockAll makes every locked achievement available and returns how many
// changed. Completed achievements keep their status.
func (d *Document) UnlockAll() int {
	n := 0
	d.each(func(_ Ref, a *Achievement) {
		if a.Status == StatusLocked {
			a.Status = StatusAvailable
			n++
		}
	})
	return n
}

// ResetAll returns every achievement to its fresh status: tier 0 available,
// the rest locked, no completion dates.
func (d *Document) ResetAll() {
	d.each(func(r Ref, a *Achievement) {
		a.Status = initialStatus(r.Tier)
		a.DateCompleted = nil
	})
}

// MergeProgress copies status and completion date from prev into d for
// every achievement both documents contain.
func (d *Document) MergeProgress(prev *Document) int {
	if prev == nil {
		return 0
	}
	n := 0
	d.each(func(r Ref, a *Achievement) {
		p, err := prev.Get(r)
		if err != nil {
			return
		}
		a.Status = p.Status
		a.DateCompleted = nil
		if p.DateCompleted != nil {
			ts := *p.DateCompleted
			a.DateCompleted = &ts
		}
		n++
	})
	return n
}

func (d *Document) each(fn func(Ref, *Achievement)) {
	if d == nil {
		return
	}
	for i := range d.Domains {
		for j := range d.Domains[i].Tiers {
			items := d.Domains[i].Tiers[j].Achievements
			for k := range items {
				fn(Ref{Domain: i, Tier: j, Index: k}, &items[k])
			}
		}
	}
}
