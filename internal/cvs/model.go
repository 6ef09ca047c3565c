package cvs

import "time"

// Tailored CV statuses. A forked CV stays pending until the run that created
// it has recorded its usage; a crash mid-run leaves a detectable pending copy.
const (
	TailorStatusPending  = "pending"
	TailorStatusComplete = "complete"
)

// CV is one résumé document. The user's master CV has no Tailored record;
// every tailored copy is a full independent document, never a diff.
type CV struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	Title      string            `json:"title"`
	Basics     map[string]string `json:"basics"`
	Skills     []Skill           `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Tailored   *TailoredMeta     `json:"tailored,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	DeletedAt  *time.Time        `json:"deletedAt,omitempty"`
}

// Skill is a single named skill. Ordering in the slice is the display order.
type Skill struct {
	Name string `json:"name"`
}

// ExperienceEntry is one work-experience item.
type ExperienceEntry struct {
	ID           string   `json:"id"`
	Role         string   `json:"role"`
	Company      string   `json:"company"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// TailoredMeta marks a CV as a tailored copy and carries its presentation
// defaults and provenance.
type TailoredMeta struct {
	JobDescriptionID  string          `json:"jobDescriptionId"`
	CompanyName       string          `json:"companyName,omitempty"`
	CoverLetter       string          `json:"coverLetter,omitempty"`
	TailoredAt        time.Time       `json:"tailoredAt"`
	TouchedByHuman    bool            `json:"touchedByHuman"`
	SectionOrder      []string        `json:"sectionOrder"`
	SectionVisibility map[string]bool `json:"sectionVisibility"`
	RenderOptions     RenderOptions   `json:"renderOptions"`
	Status            string          `json:"status"`
}

// RenderOptions are the PDF display defaults attached to a tailored copy.
type RenderOptions struct {
	PageSize    string `json:"pageSize"`
	FontFamily  string `json:"fontFamily"`
	AccentColor string `json:"accentColor"`
}

// DefaultTailoredMeta returns the presentation defaults for a fresh fork.
func DefaultTailoredMeta(jobDescriptionID, companyName string, now time.Time) *TailoredMeta {
	return &TailoredMeta{
		JobDescriptionID: jobDescriptionID,
		CompanyName:      companyName,
		TailoredAt:       now,
		SectionOrder:     []string{"basics", "experience", "skills"},
		SectionVisibility: map[string]bool{
			"basics":     true,
			"experience": true,
			"skills":     true,
		},
		RenderOptions: RenderOptions{
			PageSize:    "A4",
			FontFamily:  "Inter",
			AccentColor: "#2563eb",
		},
		Status: TailorStatusPending,
	}
}

// Clone returns a deep copy sharing no slices or maps with the original.
func (c CV) Clone() CV {
	out := c
	if c.Basics != nil {
		out.Basics = make(map[string]string, len(c.Basics))
		for k, v := range c.Basics {
			out.Basics[k] = v
		}
	}
	out.Skills = append([]Skill(nil), c.Skills...)
	if c.Experience != nil {
		out.Experience = make([]ExperienceEntry, len(c.Experience))
		for i, e := range c.Experience {
			e.Achievements = append([]string(nil), e.Achievements...)
			out.Experience[i] = e
		}
	}
	if c.Tailored != nil {
		meta := *c.Tailored
		meta.SectionOrder = append([]string(nil), c.Tailored.SectionOrder...)
		if c.Tailored.SectionVisibility != nil {
			meta.SectionVisibility = make(map[string]bool, len(c.Tailored.SectionVisibility))
			for k, v := range c.Tailored.SectionVisibility {
				meta.SectionVisibility[k] = v
			}
		}
		out.Tailored = &meta
	}
	if c.DeletedAt != nil {
		deleted := *c.DeletedAt
		out.DeletedAt = &deleted
	}
	return out
}

// Fork deep-copies the CV into a brand-new pending tailored document with a
// cleared identity. The caller assigns the new ID on create.
func (c CV) Fork(jobDescriptionID, companyName string, now time.Time) CV {
	out := c.Clone()
	out.ID = ""
	out.CreatedAt = time.Time{}
	out.UpdatedAt = time.Time{}
	out.DeletedAt = nil
	out.Tailored = DefaultTailoredMeta(jobDescriptionID, companyName, now)
	return out
}
