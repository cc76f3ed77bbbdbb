package form

// View is the presentation copy of the form for its current mode and loading flag
type View struct {
	Title        string
	Subtitle     string
	SubmitLabel  string
	SubmitActive bool
	TogglePrompt string
	ToggleLabel  string
	Fields       []Field
	Errors       map[Field]string
}

var (
	loginFields    = []Field{FieldEmail, FieldPassword}
	registerFields = []Field{FieldEmail, FieldPassword, FieldUsername, FieldGender, FieldContact}
)

// View renders the state into labels and the list of inputs to show
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		SubmitActive: !s.loading,
		Errors:       s.errors.Messages(),
	}
	if s.mode == Login {
		v.Title = "Welcome Back"
		v.Subtitle = "Sign in to access your account"
		v.SubmitLabel = "Login"
		v.TogglePrompt = "Don't have an account?"
		v.ToggleLabel = "Register"
		v.Fields = append([]Field(nil), loginFields...)
	} else {
		v.Title = "Join Us"
		v.Subtitle = "Fill out the form to create your account"
		v.SubmitLabel = "Register"
		v.TogglePrompt = "Already have an account?"
		v.ToggleLabel = "Login"
		v.Fields = append([]Field(nil), registerFields...)
	}
	if s.loading {
		v.SubmitLabel = "Processing..."
	}
	return v
}
