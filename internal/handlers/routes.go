package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every lifecycle route on api
func RegisterRoutes(api *gin.RouterGroup, offers *OfferHandler, objects *ObjectHandler, interests *InterestHandler, types *TypeHandler) {
	offerRoutes := api.Group("/offers")
	{
		offerRoutes.GET("", offers.ListOffers)
		offerRoutes.GET("/last", offers.GetLastOffers)
		offerRoutes.GET("/:id", offers.GetOffer)
		offerRoutes.POST("", offers.CreateOffer)
		offerRoutes.PUT("/:id", offers.UpdateOffer)
		offerRoutes.POST("/:id/cancel", offers.CancelOffer)
	}

	objectRoutes := api.Group("/objects")
	{
		objectRoutes.GET("/:id", objects.GetObject)
		objectRoutes.GET("/member/:memberId", objects.GetMemberObjects)
		objectRoutes.PUT("/:id", objects.UpdateObject)
		objectRoutes.POST("/:id/given", objects.MarkGiven)
		objectRoutes.GET("/:id/picture", objects.GetPicture)
		objectRoutes.POST("/:id/picture", objects.UpdatePicture)
	}

	interestRoutes := api.Group("/interests")
	{
		interestRoutes.POST("", interests.AddInterest)
		interestRoutes.POST("/assign", interests.AssignOffer)
		interestRoutes.GET("/count/:objectId", interests.GetInterestedCount)
		interestRoutes.GET("/notifications", interests.GetNotifications)
		interestRoutes.DELETE("/notifications/:objectId", interests.DismissNotification)
		interestRoutes.GET("/:objectId/:memberId", interests.GetInterest)
	}

	typeRoutes := api.Group("/types")
	{
		typeRoutes.GET("/defaults", types.GetDefaultTypes)
		typeRoutes.GET("/name/:name", types.GetTypeByName)
		typeRoutes.GET("/:id", types.GetType)
	}
}
