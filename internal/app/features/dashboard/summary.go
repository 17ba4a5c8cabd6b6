// internal/app/features/dashboard/summary.go
package dashboard

import (
	"sort"
	"time"

	"github.com/dalemusser/mepad/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sliceLimit caps each list shown on the personal dashboard.
const sliceLimit = 5

// PersonalStats are the counters on the personal dashboard.
type PersonalStats struct {
	TotalMeetings    int `json:"totalMeetings"`
	UpcomingMeetings int `json:"upcomingMeetings"`
	PendingActions   int `json:"pendingActions"`
	CompletedActions int `json:"completedActions"`
}

// PendingAction is an action point annotated with the meeting it belongs to.
type PendingAction struct {
	models.ActionPoint
	MeetingTitle string             `json:"meetingTitle"`
	MeetingID    primitive.ObjectID `json:"meetingId"`
}

// Personal is the dashboard of the meetings a user created.
type Personal struct {
	Stats            PersonalStats    `json:"stats"`
	RecentMeetings   []models.Meeting `json:"recentMeetings"`
	UpcomingMeetings []models.Meeting `json:"upcomingMeetings"`
	PendingActions   []PendingAction  `json:"pendingActions"`
}

// BuildPersonal summarizes meetings as of now. The input order does not
// matter; lists come out newest date first.
func BuildPersonal(meetings []models.Meeting, now time.Time) Personal {
	sorted := byDateDesc(meetings)

	out := Personal{
		Stats:            PersonalStats{TotalMeetings: len(sorted)},
		RecentMeetings:   []models.Meeting{},
		UpcomingMeetings: []models.Meeting{},
		PendingActions:   []PendingAction{},
	}
	for i := range sorted {
		m := &sorted[i]
		if len(out.RecentMeetings) < sliceLimit {
			out.RecentMeetings = append(out.RecentMeetings, *m)
		}
		if m.IsUpcoming(now) {
			out.Stats.UpcomingMeetings++
			if len(out.UpcomingMeetings) < sliceLimit {
				out.UpcomingMeetings = append(out.UpcomingMeetings, *m)
			}
		}
		for _, ap := range m.ActionPoints {
			switch ap.Status {
			case models.ActionPending:
				out.Stats.PendingActions++
				if len(out.PendingActions) < sliceLimit {
					out.PendingActions = append(out.PendingActions, PendingAction{
						ActionPoint:  ap,
						MeetingTitle: m.Title,
						MeetingID:    m.ID,
					})
				}
			case models.ActionCompleted:
				out.Stats.CompletedActions++
			}
		}
	}
	return out
}

// AdminStats are the system-wide counters on the admin dashboard.
type AdminStats struct {
	TotalMeetings     int   `json:"totalMeetings"`
	TotalParticipants int64 `json:"totalParticipants"`
	TotalTasks        int64 `json:"totalTasks"`
	CompletedTasks    int64 `json:"completedTasks"`
}

// ParticipantSummary is the public part of a participant's account.
type ParticipantSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// AdminMeeting is a meeting with its participants resolved to summaries and
// the tasks linked to it. Participants whose accounts no longer exist are
// left out of the summaries.
type AdminMeeting struct {
	models.Meeting
	ParticipantDetails []ParticipantSummary `json:"participant_details"`
	Tasks              []models.Task        `json:"tasks"`
}

// Admin is the dashboard shown to admins.
type Admin struct {
	Stats    AdminStats     `json:"stats"`
	Meetings []AdminMeeting `json:"meetings"`
}

// BuildAdmin joins meetings with the users they reference and the tasks
// linked to them. Tasks keep their input order within a meeting.
// stats.TotalMeetings is filled from meetings; the other counters are passed
// through.
func BuildAdmin(meetings []models.Meeting, users []models.User, tasks []models.Task, stats AdminStats) Admin {
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	byMeeting := map[primitive.ObjectID][]models.Task{}
	for _, t := range tasks {
		if t.MeetingID != nil {
			byMeeting[*t.MeetingID] = append(byMeeting[*t.MeetingID], t)
		}
	}

	stats.TotalMeetings = len(meetings)
	out := Admin{Stats: stats, Meetings: make([]AdminMeeting, 0, len(meetings))}
	for _, m := range byDateDesc(meetings) {
		details := make([]ParticipantSummary, 0, len(m.Participants))
		for _, pid := range m.Participants {
			if u, ok := byID[pid]; ok {
				details = append(details, ParticipantSummary{ID: u.ID, Name: u.FullName, Email: u.Email})
			}
		}
		linked := byMeeting[m.ID]
		if linked == nil {
			linked = []models.Task{}
		}
		out.Meetings = append(out.Meetings, AdminMeeting{Meeting: m, ParticipantDetails: details, Tasks: linked})
	}
	return out
}

// ParticipantIDs returns the distinct participant IDs across meetings.
func ParticipantIDs(meetings []models.Meeting) []primitive.ObjectID {
	seen := map[primitive.ObjectID]struct{}{}
	ids := []primitive.ObjectID{}
	for _, m := range meetings {
		for _, pid := range m.Participants {
			if _, dup := seen[pid]; dup {
				continue
			}
			seen[pid] = struct{}{}
			ids = append(ids, pid)
		}
	}
	return ids
}

// ParticipantStats are the counters on the participant dashboard.
type ParticipantStats struct {
	UpcomingMeetings int `json:"upcomingMeetings"`
	PendingTasks     int `json:"pendingTasks"`
	CompletedTasks   int `json:"completedTasks"`
}

// ParticipantView is the dashboard of meetings a user attends and the tasks
// assigned to them.
type ParticipantView struct {
	Stats    ParticipantStats `json:"stats"`
	Meetings []models.Meeting `json:"meetings"`
	Tasks    []models.Task    `json:"tasks"`
}

// BuildParticipant summarizes attended meetings and assigned tasks as of now.
// Any task not completed counts as pending.
func BuildParticipant(meetings []models.Meeting, tasks []models.Task, now time.Time) ParticipantView {
	out := ParticipantView{
		Meetings: byDateDesc(meetings),
		Tasks:    tasks,
	}
	if out.Tasks == nil {
		out.Tasks = []models.Task{}
	}
	for i := range out.Meetings {
		if out.Meetings[i].IsUpcoming(now) {
			out.Stats.UpcomingMeetings++
		}
	}
	for _, t := range out.Tasks {
		if t.IsCompleted() {
			out.Stats.CompletedTasks++
		} else {
			out.Stats.PendingTasks++
		}
	}
	return out
}

func byDateDesc(meetings []models.Meeting) []models.Meeting {
	out := make([]models.Meeting, len(meetings))
	copy(out, meetings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
