package domain

// SampleDocument returns the hierarchy used when no persisted record exists.
// Every call builds fresh nodes.
func SampleDocument() Document {
	admin, _ := DefaultRoster().Lookup("user1")
	return Document{
		Organizations: []*Organization{
			{
				ID:          "1",
				Name:        "Acme Corporation",
				Description: "A global manufacturing company",
				Departments: []*Department{
					{
						ID:             "101",
						Name:           "Engineering",
						OrganizationID: "1",
						Projects: []*Project{
							{
								ID:           "1001",
								Name:         "Product Redesign",
								Description:  "Redesigning our flagship product",
								DepartmentID: "101",
								Teams: []*Team{
									{
										ID:          "10001",
										Name:        "UI Team",
										ProjectID:   "1001",
										Description: "Responsible for user interface redesign",
										Members: []*TeamMember{
											{
												ID:               "100001",
												UserID:           "user2",
												TeamID:           "10001",
												Role:             RoleManager,
												Responsibilities: []string{"UI Design", "User Testing"},
											},
											{
												ID:               "100002",
												UserID:           "user3",
												TeamID:           "10001",
												Role:             RoleMember,
												Responsibilities: []string{"Frontend Development"},
											},
										},
									},
								},
							},
						},
					},
					{
						ID:             "102",
						Name:           "Marketing",
						OrganizationID: "1",
						Projects: []*Project{
							{
								ID:           "1002",
								Name:         "Q4 Campaign",
								Description:  "Marketing campaign for the fourth quarter",
								DepartmentID: "102",
								Teams: []*Team{
									{
										ID:          "10002",
										Name:        "Content Team",
										ProjectID:   "1002",
										Description: "Responsible for content creation",
										Members:     []*TeamMember{},
									},
								},
							},
						},
					},
				},
			},
		},
		ActiveUser: admin,
	}
}
