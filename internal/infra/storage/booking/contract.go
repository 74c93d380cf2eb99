package booking

import "github.com/m04kA/ABS-SchedulingCore/pkg/txmanager"

// Переиспользуем интерфейсы txmanager для работы с БД
type DBExecutor = txmanager.DBExecutor
type TxExecutor = txmanager.TxExecutor
