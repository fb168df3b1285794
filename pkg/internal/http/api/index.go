package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		users := api.Group("/users").Name("Users API")
		{
			users.Post("/signup", signup)
			users.Post("/login", login)
			users.Get("/", listAccounts)
			users.Get("/profile", getProfile)
			users.Patch("/profile", updateProfile)
			users.Put("/profile/password", changePassword)
			users.Get("/friends", listFriends)
			users.Post("/friend-request", sendFriendRequest)
			users.Post("/accept-friend-request", acceptFriendRequest)
			users.Post("/reject-friend-request", rejectFriendRequest)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Post("/", createPost)
			posts.Get("/", listPost)
			posts.Get("/:postId", getPost)
			posts.Put("/:postId", editPost)
			posts.Delete("/:postId", deletePost)
			posts.Post("/:postId/comment", createComment)
		}

		api.Get("/feed", getFeed)
	}
}
