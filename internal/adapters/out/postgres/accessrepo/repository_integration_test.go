package accessrepo_test

import (
	"context"
	"testing"

	"fulfillment/internal/adapters/out/postgres/accessrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/kitchen"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type AccessRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	db         *gorm.DB
	repository *accessrepo.GormAccessRepository
}

func (suite *AccessRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.db = database.DB

	suite.Require().NoError(suite.db.AutoMigrate(
		&accessrepo.RoleDTO{}, &accessrepo.PermissionDTO{}, &accessrepo.AssignmentDTO{},
	))
}

func (suite *AccessRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE roles, role_permissions, staff_assignments").Error)
	suite.repository = accessrepo.NewGormAccessRepository(suite.db)
}

func (suite *AccessRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *AccessRepositoryIntegrationTestSuite) saveRole(name string, perms ...access.Permission) *access.Role {
	role, err := access.NewRole(name, name+" role", perms)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.SaveRole(context.Background(), role))
	return role
}

func (suite *AccessRepositoryIntegrationTestSuite) newKitchen() *kitchen.Kitchen {
	z, err := kitchen.NewZone("North")
	suite.Require().NoError(err)
	k, err := kitchen.NewKitchen("K1", z, 5)
	suite.Require().NoError(err)
	return k
}

func (suite *AccessRepositoryIntegrationTestSuite) TestSaveRole_ReplacesPermissions() {
	ctx := context.Background()
	role := suite.saveRole("cook", access.OrdersView, access.OrdersUpdate)

	suite.Require().NoError(role.Redefine("line cook", []access.Permission{access.BatchesUpdate}, kernel.Active))
	suite.Require().NoError(suite.repository.SaveRole(ctx, role))

	got, err := suite.repository.FindRoleByName(ctx, "cook")
	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.Equal("line cook", got.Description())
	suite.Equal([]access.Permission{access.BatchesUpdate}, got.Permissions())
}

func (suite *AccessRepositoryIntegrationTestSuite) TestFindRoleByName_Missing() {
	got, err := suite.repository.FindRoleByName(context.Background(), "nobody")
	suite.Require().NoError(err)
	suite.Nil(got)

	_, err = suite.repository.GetRole(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *AccessRepositoryIntegrationTestSuite) TestUpsertAssignment_OnePerUserAndKitchen() {
	ctx := context.Background()
	cook := suite.saveRole("cook", access.OrdersView)
	manager := suite.saveRole("manager", access.OrdersView, access.AccessManage)
	k := suite.newKitchen()
	userID := kernel.NewUUID()

	first, err := access.NewAssignment(userID, k, cook, false)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.UpsertAssignment(ctx, first))
	second, err := access.NewAssignment(userID, k, manager, true)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.UpsertAssignment(ctx, second))

	var count int64
	suite.Require().NoError(suite.db.Model(&accessrepo.AssignmentDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)

	grant, err := suite.repository.FindGrant(ctx, userID, k.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(grant)
	suite.Equal("manager", grant.Role.Name())
	suite.True(grant.Assignment.IsPrimary)
	suite.True(grant.Allows(access.AccessManage))
}

func (suite *AccessRepositoryIntegrationTestSuite) TestUpsertAssignment_PrimaryClearsOthers() {
	ctx := context.Background()
	cook := suite.saveRole("cook", access.OrdersView)
	k1, k2 := suite.newKitchen(), suite.newKitchen()
	userID := kernel.NewUUID()

	a1, err := access.NewAssignment(userID, k1, cook, true)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.UpsertAssignment(ctx, a1))
	a2, err := access.NewAssignment(userID, k2, cook, true)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.UpsertAssignment(ctx, a2))

	g1, err := suite.repository.FindGrant(ctx, userID, k1.ID())
	suite.Require().NoError(err)
	g2, err := suite.repository.FindGrant(ctx, userID, k2.ID())
	suite.Require().NoError(err)
	suite.False(g1.Assignment.IsPrimary)
	suite.True(g2.Assignment.IsPrimary)
}

func (suite *AccessRepositoryIntegrationTestSuite) TestDeleteAssignment_RevokesGrant() {
	ctx := context.Background()
	cook := suite.saveRole("cook", access.OrdersView)
	k := suite.newKitchen()
	userID := kernel.NewUUID()
	a, err := access.NewAssignment(userID, k, cook, false)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.UpsertAssignment(ctx, a))

	suite.Require().NoError(suite.repository.DeleteAssignment(ctx, userID, k.ID()))
	suite.Require().NoError(suite.repository.DeleteAssignment(ctx, userID, k.ID()))

	grant, err := suite.repository.FindGrant(ctx, userID, k.ID())
	suite.Require().NoError(err)
	suite.Nil(grant)
}

func TestAccessRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AccessRepositoryIntegrationTestSuite))
}
