package console

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"solarfarm/internal/panels/application"
	panels "solarfarm/internal/panels/domain"
)

const failureMessage = "Something went wrong talking to the database. Please try again."

// Controller runs the interactive menu.
type Controller struct {
	service *application.PanelService
	view    *View
	logger  *zap.Logger
}

// NewController constructs a Controller.
func NewController(service *application.PanelService, view *View, logger *zap.Logger) (*Controller, error) {
	if service == nil {
		return nil, errors.New("console controller: nil service")
	}
	if view == nil {
		return nil, errors.New("console controller: nil view")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{service: service, view: view, logger: logger}, nil
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	c.view.DisplayHeader("Welcome to Solar Farm")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		option, err := c.view.ChooseMenuOption()
		if err != nil {
			return c.finish(err)
		}
		if option == MenuExit {
			break
		}
		if err := c.dispatch(ctx, option); err != nil {
			if !errors.Is(err, panels.ErrDataAccess) {
				return c.finish(err)
			}
			c.logger.Error("console operation failed", zap.Int("option", int(option)), zap.Error(err))
			c.view.DisplayMessage(failureMessage)
		}
	}
	c.view.DisplayHeader("Goodbye.")
	return nil
}

func (c *Controller) finish(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Controller) dispatch(ctx context.Context, option MenuOption) error {
	switch option {
	case MenuFindBySection:
		return c.findBySection(ctx)
	case MenuAdd:
		return c.addPanel(ctx)
	case MenuUpdate:
		return c.updatePanel(ctx)
	case MenuRemove:
		return c.removePanel(ctx)
	default:
		return nil
	}
}

func (c *Controller) findBySection(ctx context.Context) error {
	c.view.DisplayHeader("Find Panels by Section")
	section, err := c.view.GetSection()
	if err != nil {
		return err
	}
	list, err := c.service.FindBySection(ctx, section)
	if err != nil {
		return err
	}
	c.view.DisplayPanels(section, list)
	return nil
}

func (c *Controller) addPanel(ctx context.Context) error {
	c.view.DisplayHeader("Add a Panel")
	panel, err := c.view.AddPanel(c.service.MaxInstallationYear())
	if err != nil {
		return err
	}
	result, err := c.service.Create(ctx, panel)
	if err != nil {
		return err
	}
	if !result.Success() {
		c.view.DisplayErrors(result.Messages)
		return nil
	}
	c.view.DisplayMessage("[Success]\nPanel %s added with id %d.", result.Panel.Key(), result.Panel.ID)
	return nil
}

func (c *Controller) updatePanel(ctx context.Context) error {
	c.view.DisplayHeader("Update a Panel")
	key, err := c.view.GetKey()
	if err != nil {
		return err
	}
	current, err := c.service.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	if current == nil {
		c.view.DisplayMessage("[Err]\nThere is no panel %s.", key)
		return nil
	}
	panel, err := c.view.UpdatePanel(*current, c.service.MaxInstallationYear())
	if err != nil {
		return err
	}
	result, err := c.service.Update(ctx, panel)
	if err != nil {
		return err
	}
	if !result.Success() {
		c.view.DisplayErrors(result.Messages)
		return nil
	}
	c.view.DisplayMessage("[Success]\nPanel %s updated.", panel.Key())
	return nil
}

func (c *Controller) removePanel(ctx context.Context) error {
	c.view.DisplayHeader("Remove a Panel")
	key, err := c.view.GetKey()
	if err != nil {
		return err
	}
	result, err := c.service.DeleteByKey(ctx, key)
	if err != nil {
		return err
	}
	if !result.Success() {
		c.view.DisplayMessage("[Err]\nThere is no panel %s.", key)
		return nil
	}
	c.view.DisplayMessage("[Success]\nPanel %s removed.", key)
	return nil
}
