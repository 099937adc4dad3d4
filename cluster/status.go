package cluster

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Status is a read-only HTTP introspection surface over a Provider's
// cluster-state read API. It never mutates state; mutation happens only
// through the Provider's Go API.
type Status struct {
	provider *Provider
}

// NewStatus creates a Status handler over provider.
func NewStatus(provider *Provider) *Status {
	return &Status{provider: provider}
}

// Register adds the status routes to group.
func (s *Status) Register(group *gin.RouterGroup) {
	group.GET("/state", s.getClusterStateRoute)
	group.GET("/nodes", s.listLiveNodesRoute)
	group.GET("/nodes/:id/replicas", s.getReplicasForNodeRoute)
	group.GET("/collections", s.listCollectionsRoute)
	group.GET("/properties", s.getClusterPropertiesRoute)
}

func (s *Status) getClusterStateRoute(c *gin.Context) {
	c.JSON(http.StatusOK, s.provider.GetClusterState())
}

func (s *Status) listLiveNodesRoute(c *gin.Context) {
	c.JSON(http.StatusOK, s.provider.GetLiveNodes())
}

func (s *Status) getReplicasForNodeRoute(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, s.provider.GetReplicaInfosForNode(id))
}

func (s *Status) listCollectionsRoute(c *gin.Context) {
	c.JSON(http.StatusOK, s.provider.ListCollections())
}

func (s *Status) getClusterPropertiesRoute(c *gin.Context) {
	c.JSON(http.StatusOK, s.provider.GetClusterProperties())
}
