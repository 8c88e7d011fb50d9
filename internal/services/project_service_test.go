package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"gorm.io/gorm"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProjectService
	owner   *models.User
	member  *models.User
	outside *models.User
}

func (s *ProjectServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = newProjectService(s.db)
	s.owner = createTestUser(s.T(), s.db, "owner", "owner@example.com")
	s.member = createTestUser(s.T(), s.db, "member", "member@example.com")
	s.outside = createTestUser(s.T(), s.db, "outside", "outside@example.com")
}

func (s *ProjectServiceTestSuite) createProject(memberIDs ...uint64) *models.Project {
	project, err := s.service.CreateProject(s.owner, CreateProjectInput{
		Name:       "Apollo",
		ProjectKey: "APL",
		MemberIDs:  memberIDs,
	})
	s.Require().NoError(err)
	return project
}

func memberIDs(project *models.Project) []uint64 {
	ids := make([]uint64, 0, len(project.Members))
	for _, m := range project.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

func (s *ProjectServiceTestSuite) TestCreateProjectOwnerAlwaysMember() {
	project := s.createProject()

	s.Equal(s.owner.ID, project.OwnerID)
	s.Contains(memberIDs(project), s.owner.ID)
}

func (s *ProjectServiceTestSuite) TestCreateProjectWithMembers() {
	project := s.createProject(s.member.ID, s.member.ID)

	ids := memberIDs(project)
	s.Len(ids, 2)
	s.Contains(ids, s.owner.ID)
	s.Contains(ids, s.member.ID)
}

func (s *ProjectServiceTestSuite) TestCreateProjectEmptyName() {
	_, err := s.service.CreateProject(s.owner, CreateProjectInput{Name: "  "})
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindInvalidInput))
}

func (s *ProjectServiceTestSuite) TestCreateProjectUnknownMember() {
	_, err := s.service.CreateProject(s.owner, CreateProjectInput{
		Name:      "Apollo",
		MemberIDs: []uint64{999},
	})
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindNotFound))
}

func (s *ProjectServiceTestSuite) TestGetProjectRequiresMembership() {
	project := s.createProject(s.member.ID)

	_, err := s.service.GetProject(project.ID, s.member)
	s.NoError(err)

	_, err = s.service.GetProject(project.ID, s.outside)
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindForbidden))
}

func (s *ProjectServiceTestSuite) TestListProjectsNoDuplicates() {
	s.createProject(s.member.ID)
	s.createProject()

	projects, err := s.service.ListProjects(s.owner)
	s.Require().NoError(err)
	s.Len(projects, 2)

	projects, err = s.service.ListProjects(s.member)
	s.Require().NoError(err)
	s.Len(projects, 1)

	projects, err = s.service.ListProjects(s.outside)
	s.Require().NoError(err)
	s.Empty(projects)
}

func (s *ProjectServiceTestSuite) TestUpdateProjectOwnerOnly() {
	project := s.createProject(s.member.ID)

	_, err := s.service.UpdateProject(project.ID, s.member, UpdateProjectInput{Name: "Artemis"})
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindForbidden))

	updated, err := s.service.UpdateProject(project.ID, s.owner, UpdateProjectInput{Name: "Artemis", ProjectKey: "ART"})
	s.Require().NoError(err)
	s.Equal("Artemis", updated.Name)
	s.Equal("ART", updated.ProjectKey)
}

func (s *ProjectServiceTestSuite) TestUpdateProjectReplacesMembersWholesale() {
	project := s.createProject(s.member.ID)

	updated, err := s.service.UpdateProject(project.ID, s.owner, UpdateProjectInput{
		Name:      project.Name,
		MemberIDs: []uint64{s.outside.ID},
	})
	s.Require().NoError(err)

	ids := memberIDs(updated)
	s.Len(ids, 2)
	s.Contains(ids, s.owner.ID)
	s.Contains(ids, s.outside.ID)
	s.NotContains(ids, s.member.ID)
}

func (s *ProjectServiceTestSuite) TestUpdateProjectNilMembersLeavesSetAlone() {
	project := s.createProject(s.member.ID)

	updated, err := s.service.UpdateProject(project.ID, s.owner, UpdateProjectInput{Name: "Artemis"})
	s.Require().NoError(err)
	s.Len(updated.Members, 2)
}

func (s *ProjectServiceTestSuite) TestAddMember() {
	project := s.createProject()

	updated, err := s.service.AddMember(project.ID, s.owner, s.member.ID)
	s.Require().NoError(err)
	s.Contains(memberIDs(updated), s.member.ID)

	// adding again is a no-op
	updated, err = s.service.AddMember(project.ID, s.owner, s.member.ID)
	s.Require().NoError(err)
	s.Len(updated.Members, 2)
}

func (s *ProjectServiceTestSuite) TestAddMemberOwnerOnly() {
	project := s.createProject(s.member.ID)

	_, err := s.service.AddMember(project.ID, s.member, s.outside.ID)
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindForbidden))
}

func (s *ProjectServiceTestSuite) TestAddMemberUnknownUser() {
	project := s.createProject()

	_, err := s.service.AddMember(project.ID, s.owner, 999)
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindNotFound))
}

func (s *ProjectServiceTestSuite) TestRemoveMember() {
	project := s.createProject(s.member.ID)

	updated, err := s.service.RemoveMember(project.ID, s.owner, s.member.ID)
	s.Require().NoError(err)
	s.NotContains(memberIDs(updated), s.member.ID)
}

func (s *ProjectServiceTestSuite) TestRemoveMemberNeverRemovesOwner() {
	project := s.createProject(s.member.ID)

	_, err := s.service.RemoveMember(project.ID, s.owner, s.owner.ID)
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindForbidden))
}

func (s *ProjectServiceTestSuite) TestDeleteProjectCascades() {
	project := s.createProject(s.member.ID)

	taskSvc := newTaskService(s.db, newFakeNotifier())
	task, err := taskSvc.CreateTask(s.member, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "write docs",
	})
	s.Require().NoError(err)
	_, err = taskSvc.AddComment(task.ID, s.member, "on it")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteProject(project.ID, s.owner))

	_, err = s.service.GetProject(project.ID, s.owner)
	s.True(apierrors.IsKind(err, apierrors.KindNotFound))

	var taskCount, commentCount int64
	s.Require().NoError(s.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount).Error)
	s.Require().NoError(s.db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&commentCount).Error)
	s.Zero(taskCount)
	s.Zero(commentCount)
}

func (s *ProjectServiceTestSuite) TestDeleteProjectOwnerOnly() {
	project := s.createProject(s.member.ID)

	err := s.service.DeleteProject(project.ID, s.member)
	s.Require().Error(err)
	s.True(apierrors.IsKind(err, apierrors.KindForbidden))
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
