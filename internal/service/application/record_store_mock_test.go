package application

import (
	"context"
	"sync"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

var _ recordStore = &recordStoreMock{}

type recordStoreMock struct {
	LoadFunc       func(ctx context.Context) ([]domain.Application, error)
	AppendFunc     func(ctx context.Context, app domain.Application) error
	UpdateAtFunc   func(ctx context.Context, index int, mutator func(*domain.Application)) error
	UpdateByIDFunc func(ctx context.Context, id string, mutator func(*domain.Application)) (domain.Application, error)
	RemoveAtFunc   func(ctx context.Context, index int) error
	RemoveByIDFunc func(ctx context.Context, id string) (domain.Application, error)
	ClearFunc      func(ctx context.Context) (int, error)
	FindByRegFunc  func(ctx context.Context, reg string) (domain.Application, error)

	calls struct {
		Load []struct {
			Ctx context.Context
		}
		Append []struct {
			Ctx context.Context
			App domain.Application
		}
		UpdateAt []struct {
			Ctx     context.Context
			Index   int
			Mutator func(*domain.Application)
		}
		UpdateByID []struct {
			Ctx     context.Context
			ID      string
			Mutator func(*domain.Application)
		}
		RemoveAt []struct {
			Ctx   context.Context
			Index int
		}
		RemoveByID []struct {
			Ctx context.Context
			ID  string
		}
		Clear []struct {
			Ctx context.Context
		}
		FindByReg []struct {
			Ctx context.Context
			Reg string
		}
	}
	lockLoad       sync.RWMutex
	lockAppend     sync.RWMutex
	lockUpdateAt   sync.RWMutex
	lockUpdateByID sync.RWMutex
	lockRemoveAt   sync.RWMutex
	lockRemoveByID sync.RWMutex
	lockClear      sync.RWMutex
	lockFindByReg  sync.RWMutex
}

func (mock *recordStoreMock) Load(ctx context.Context) ([]domain.Application, error) {
	if mock.LoadFunc == nil {
		panic("recordStoreMock.LoadFunc: method is nil but recordStore.Load was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockLoad.Lock()
	mock.calls.Load = append(mock.calls.Load, callInfo)
	mock.lockLoad.Unlock()
	return mock.LoadFunc(ctx)
}

func (mock *recordStoreMock) LoadCalls() []struct {
	Ctx context.Context
} {
	mock.lockLoad.RLock()
	calls := mock.calls.Load
	mock.lockLoad.RUnlock()
	return calls
}

func (mock *recordStoreMock) Append(ctx context.Context, app domain.Application) error {
	if mock.AppendFunc == nil {
		panic("recordStoreMock.AppendFunc: method is nil but recordStore.Append was just called")
	}
	callInfo := struct {
		Ctx context.Context
		App domain.Application
	}{
		Ctx: ctx,
		App: app,
	}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, app)
}

func (mock *recordStoreMock) AppendCalls() []struct {
	Ctx context.Context
	App domain.Application
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *recordStoreMock) UpdateAt(ctx context.Context, index int, mutator func(*domain.Application)) error {
	if mock.UpdateAtFunc == nil {
		panic("recordStoreMock.UpdateAtFunc: method is nil but recordStore.UpdateAt was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Index   int
		Mutator func(*domain.Application)
	}{
		Ctx:     ctx,
		Index:   index,
		Mutator: mutator,
	}
	mock.lockUpdateAt.Lock()
	mock.calls.UpdateAt = append(mock.calls.UpdateAt, callInfo)
	mock.lockUpdateAt.Unlock()
	return mock.UpdateAtFunc(ctx, index, mutator)
}

func (mock *recordStoreMock) UpdateAtCalls() []struct {
	Ctx     context.Context
	Index   int
	Mutator func(*domain.Application)
} {
	mock.lockUpdateAt.RLock()
	calls := mock.calls.UpdateAt
	mock.lockUpdateAt.RUnlock()
	return calls
}

func (mock *recordStoreMock) UpdateByID(ctx context.Context, id string, mutator func(*domain.Application)) (domain.Application, error) {
	if mock.UpdateByIDFunc == nil {
		panic("recordStoreMock.UpdateByIDFunc: method is nil but recordStore.UpdateByID was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ID      string
		Mutator func(*domain.Application)
	}{
		Ctx:     ctx,
		ID:      id,
		Mutator: mutator,
	}
	mock.lockUpdateByID.Lock()
	mock.calls.UpdateByID = append(mock.calls.UpdateByID, callInfo)
	mock.lockUpdateByID.Unlock()
	return mock.UpdateByIDFunc(ctx, id, mutator)
}

func (mock *recordStoreMock) UpdateByIDCalls() []struct {
	Ctx     context.Context
	ID      string
	Mutator func(*domain.Application)
} {
	mock.lockUpdateByID.RLock()
	calls := mock.calls.UpdateByID
	mock.lockUpdateByID.RUnlock()
	return calls
}

func (mock *recordStoreMock) RemoveAt(ctx context.Context, index int) error {
	if mock.RemoveAtFunc == nil {
		panic("recordStoreMock.RemoveAtFunc: method is nil but recordStore.RemoveAt was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Index int
	}{
		Ctx:   ctx,
		Index: index,
	}
	mock.lockRemoveAt.Lock()
	mock.calls.RemoveAt = append(mock.calls.RemoveAt, callInfo)
	mock.lockRemoveAt.Unlock()
	return mock.RemoveAtFunc(ctx, index)
}

func (mock *recordStoreMock) RemoveAtCalls() []struct {
	Ctx   context.Context
	Index int
} {
	mock.lockRemoveAt.RLock()
	calls := mock.calls.RemoveAt
	mock.lockRemoveAt.RUnlock()
	return calls
}

func (mock *recordStoreMock) RemoveByID(ctx context.Context, id string) (domain.Application, error) {
	if mock.RemoveByIDFunc == nil {
		panic("recordStoreMock.RemoveByIDFunc: method is nil but recordStore.RemoveByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockRemoveByID.Lock()
	mock.calls.RemoveByID = append(mock.calls.RemoveByID, callInfo)
	mock.lockRemoveByID.Unlock()
	return mock.RemoveByIDFunc(ctx, id)
}

func (mock *recordStoreMock) RemoveByIDCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockRemoveByID.RLock()
	calls := mock.calls.RemoveByID
	mock.lockRemoveByID.RUnlock()
	return calls
}

func (mock *recordStoreMock) Clear(ctx context.Context) (int, error) {
	if mock.ClearFunc == nil {
		panic("recordStoreMock.ClearFunc: method is nil but recordStore.Clear was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockClear.Lock()
	mock.calls.Clear = append(mock.calls.Clear, callInfo)
	mock.lockClear.Unlock()
	return mock.ClearFunc(ctx)
}

func (mock *recordStoreMock) ClearCalls() []struct {
	Ctx context.Context
} {
	mock.lockClear.RLock()
	calls := mock.calls.Clear
	mock.lockClear.RUnlock()
	return calls
}

func (mock *recordStoreMock) FindByReg(ctx context.Context, reg string) (domain.Application, error) {
	if mock.FindByRegFunc == nil {
		panic("recordStoreMock.FindByRegFunc: method is nil but recordStore.FindByReg was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Reg string
	}{
		Ctx: ctx,
		Reg: reg,
	}
	mock.lockFindByReg.Lock()
	mock.calls.FindByReg = append(mock.calls.FindByReg, callInfo)
	mock.lockFindByReg.Unlock()
	return mock.FindByRegFunc(ctx, reg)
}

func (mock *recordStoreMock) FindByRegCalls() []struct {
	Ctx context.Context
	Reg string
} {
	mock.lockFindByReg.RLock()
	calls := mock.calls.FindByReg
	mock.lockFindByReg.RUnlock()
	return calls
}
