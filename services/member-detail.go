package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/repositories"
)

// MemberDetailService assembles the read-only drill-down a leader sees
// for one member.
type MemberDetailService struct {
	accounts repositories.AccountRepository
	resolver *OwnershipResolver
}

func NewMemberDetailService(accounts repositories.AccountRepository, resolver *OwnershipResolver) *MemberDetailService {
	return &MemberDetailService{
		accounts: accounts,
		resolver: resolver,
	}
}

// AssembleMemberDetail loads the member, their projects and the tasks of
// those projects, and rolls both up. Calling it twice without writes in
// between returns equal results.
func (s *MemberDetailService) AssembleMemberDetail(ctx context.Context, memberID string) (*models.MemberDetail, error) {
	id, err := parseID(memberID, "member")
	if err != nil {
		return nil, err
	}
	member, err := s.loadMember(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, member)
}

// AssembleMemberDetailForLeader is AssembleMemberDetail restricted to the
// members of leaderID.
func (s *MemberDetailService) AssembleMemberDetailForLeader(ctx context.Context, leaderID, memberID string) (*models.MemberDetail, error) {
	leader, err := parseID(leaderID, "leader")
	if err != nil {
		return nil, err
	}
	id, err := parseID(memberID, "member")
	if err != nil {
		return nil, err
	}
	member, err := s.loadMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if !member.ReportsTo(leader) {
		return nil, NewError(ErrorCodeForbidden, "member does not report to this leader")
	}
	return s.assemble(ctx, member)
}

func (s *MemberDetailService) loadMember(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "member")
	}
	if !account.IsMember() {
		return nil, NewError(ErrorCodeNotFound, "member not found")
	}
	return account, nil
}

func (s *MemberDetailService) assemble(ctx context.Context, member *models.Account) (*models.MemberDetail, error) {
	projects, err := s.resolver.projectsOf(ctx, []primitive.ObjectID{member.ID})
	if err != nil {
		return nil, err
	}
	tasks, err := s.resolver.ResolveTasksForProjects(ctx, projectIDs(projects))
	if err != nil {
		return nil, err
	}
	tasks = groupTasksByProject(projects, tasks)

	return &models.MemberDetail{
		Member:    *member,
		Projects:  projects,
		Tasks:     tasks,
		Stats:     RollupProjectStats(projects),
		TaskStats: RollupTaskStats(tasks),
	}, nil
}

// groupTasksByProject orders tasks by their project's position, keeping
// the incoming order within a project.
func groupTasksByProject(projects []models.Project, tasks []models.Task) []models.Task {
	byProject := make(map[primitive.ObjectID][]models.Task, len(projects))
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}

	grouped := make([]models.Task, 0, len(tasks))
	for _, p := range projects {
		grouped = append(grouped, byProject[p.ID]...)
	}
	return grouped
}
